package form_test

import (
	"context"
	"errors"
	"testing"

	"github.com/inventory-console/internal/form"
	"github.com/inventory-console/internal/mocks"
	"github.com/inventory-console/internal/models"
	"github.com/rs/zerolog"
)

type fixture struct {
	writer    *mocks.MockItemWriter
	describer *mocks.MockDescriber
	refreshes int
	deps      form.Deps
}

func newFixture(role models.Role) *fixture {
	f := &fixture{
		writer:    mocks.NewMockItemWriter(),
		describer: mocks.NewMockDescriber(),
	}
	f.deps = form.Deps{
		Items:     f.writer,
		Describer: f.describer,
		Roles:     mocks.StaticRoles{Role: role},
		Refresh: func(ctx context.Context) error {
			f.refreshes++
			return nil
		},
		Log: zerolog.Nop(),
	}
	return f
}

func mustSet(t *testing.T, c *form.Controller, field, value string) models.FormView {
	t.Helper()
	view, err := c.SetField(field, value)
	if err != nil {
		t.Fatalf("SetField(%s, %q) failed: %v", field, value, err)
	}
	return view
}

func TestSetField_RejectedNameKeepsPreviousValue(t *testing.T) {
	c := form.NewCreate("f1", newFixture(models.RoleAdmin).deps)

	mustSet(t, c, models.FieldName, "Widget")
	view := mustSet(t, c, models.FieldName, "Widget9")

	if view.Draft.Name != "Widget" {
		t.Errorf("rejected input must not be applied, got %q", view.Draft.Name)
	}
	if view.Errors[models.FieldName] != "Only letters and spaces allowed." {
		t.Errorf("unexpected name error %q", view.Errors[models.FieldName])
	}

	view = mustSet(t, c, models.FieldName, "Widgets")
	if _, ok := view.Errors[models.FieldName]; ok {
		t.Error("accepted input should clear the error")
	}
	if view.Draft.Name != "Widgets" {
		t.Errorf("expected Widgets, got %q", view.Draft.Name)
	}
}

func TestSetField_QuantitySelfCorrects(t *testing.T) {
	c := form.NewCreate("f1", newFixture(models.RoleAdmin).deps)

	view := mustSet(t, c, models.FieldQuantity, "1x2")
	if view.Draft.Quantity != "12" {
		t.Errorf("expected stripped quantity 12, got %q", view.Draft.Quantity)
	}
	if view.Errors[models.FieldQuantity] != "Only numbers allowed." {
		t.Errorf("unexpected quantity error %q", view.Errors[models.FieldQuantity])
	}

	view = mustSet(t, c, models.FieldQuantity, "12")
	if _, ok := view.Errors[models.FieldQuantity]; ok {
		t.Error("digits-only input should clear the error")
	}
}

func TestSetField_StatusFollowsNameAndQuantity(t *testing.T) {
	c := form.NewCreate("f1", newFixture(models.RoleAdmin).deps)

	view := mustSet(t, c, models.FieldName, "Widget")
	if view.Draft.Status != models.StatusDiscontinued {
		t.Errorf("named item with quantity 0 should be discontinued, got %s", view.Draft.Status)
	}
	view = mustSet(t, c, models.FieldQuantity, "3")
	if view.Draft.Status != models.StatusLowStock {
		t.Errorf("expected LOW_STOCK, got %s", view.Draft.Status)
	}

	view = mustSet(t, c, models.FieldStatus, "ordered")
	if view.Draft.Status != models.StatusOrdered {
		t.Fatalf("manual override not applied, got %s", view.Draft.Status)
	}
	view = mustSet(t, c, models.FieldCategory, "Office")
	if view.Draft.Status != models.StatusOrdered {
		t.Errorf("category edits must not clobber the override, got %s", view.Draft.Status)
	}

	view = mustSet(t, c, models.FieldQuantity, "25")
	if view.Draft.Status != models.StatusInStock {
		t.Errorf("quantity edit should recompute status, got %s", view.Draft.Status)
	}
}

func TestSetField_RejectedNameDoesNotRecompute(t *testing.T) {
	c := form.NewCreate("f1", newFixture(models.RoleAdmin).deps)
	mustSet(t, c, models.FieldName, "Widget")
	mustSet(t, c, models.FieldQuantity, "3")
	mustSet(t, c, models.FieldStatus, "IN_STOCK")

	view := mustSet(t, c, models.FieldName, "Order #5")
	if view.Draft.Status != models.StatusInStock {
		t.Errorf("rejected name must leave status alone, got %s", view.Draft.Status)
	}
}

func TestSetField_InvalidStatusAndUnknownField(t *testing.T) {
	c := form.NewCreate("f1", newFixture(models.RoleAdmin).deps)

	if _, err := c.SetField(models.FieldStatus, "SOLD_OUT"); !errors.Is(err, form.ErrInvalid) {
		t.Errorf("expected ErrInvalid for unknown status, got %v", err)
	}
	if _, err := c.SetField("price", "10"); !errors.Is(err, form.ErrInvalid) {
		t.Errorf("expected ErrInvalid for unknown field, got %v", err)
	}
}

func TestSubmit_EndToEndCreate(t *testing.T) {
	f := newFixture(models.RoleAdmin)
	c := form.NewCreate("f1", f.deps)

	mustSet(t, c, models.FieldName, "Order pads")
	view := mustSet(t, c, models.FieldQuantity, "3")
	if view.Draft.Status != models.StatusOrdered {
		t.Fatalf("order keyword should win over low stock, got %s", view.Draft.Status)
	}
	mustSet(t, c, models.FieldCategory, "Office")

	view, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if f.describer.Calls() != 1 {
		t.Errorf("expected one description call, got %d", f.describer.Calls())
	}
	if len(f.writer.Created) != 1 {
		t.Fatalf("expected one create, got %d", len(f.writer.Created))
	}
	created := f.writer.Created[0]
	if created.Quantity != 3 || created.Status != models.StatusOrdered || created.Category != "Office" {
		t.Errorf("unexpected created item %+v", created)
	}
	if created.Description != "Smart description for Order pads in Office" {
		t.Errorf("unexpected description %q", created.Description)
	}
	if f.refreshes != 1 {
		t.Errorf("expected one list refresh, got %d", f.refreshes)
	}

	if view.State != models.FormStateEditing || view.Draft.Name != "" || view.Draft.Status != models.StatusInStock {
		t.Errorf("create form should reset after submit, got %+v", view)
	}
}

func TestSubmit_KeepsTypedDescription(t *testing.T) {
	f := newFixture(models.RoleAdmin)
	c := form.NewCreate("f1", f.deps)
	mustSet(t, c, models.FieldName, "Tape")
	mustSet(t, c, models.FieldQuantity, "8")
	mustSet(t, c, models.FieldCategory, "Office")
	mustSet(t, c, models.FieldDescription, "Clear tape")

	if _, err := c.Submit(context.Background()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if f.describer.Calls() != 0 {
		t.Errorf("generator must not run for a typed description")
	}
	if f.writer.Created[0].Description != "Clear tape" {
		t.Errorf("unexpected description %q", f.writer.Created[0].Description)
	}
}

func TestSubmit_Guards(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, c *form.Controller)
	}{
		{"empty name", func(t *testing.T, c *form.Controller) {
			mustSet(t, c, models.FieldCategory, "Office")
		}},
		{"empty category", func(t *testing.T, c *form.Controller) {
			mustSet(t, c, models.FieldName, "Tape")
		}},
		{"outstanding field error", func(t *testing.T, c *form.Controller) {
			mustSet(t, c, models.FieldName, "Tape")
			mustSet(t, c, models.FieldCategory, "Office")
			mustSet(t, c, models.FieldQuantity, "4b")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(models.RoleAdmin)
			c := form.NewCreate("f1", f.deps)
			tt.setup(t, c)

			view, err := c.Submit(context.Background())
			if !errors.Is(err, form.ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			if view.State != models.FormStateEditing {
				t.Errorf("form should stay editing, got %s", view.State)
			}
			if f.writer.Writes() != 0 || f.describer.Calls() != 0 || f.refreshes != 0 {
				t.Error("a blocked submit must not reach any collaborator")
			}
		})
	}
}

func TestSubmit_ViewerIsRefused(t *testing.T) {
	f := newFixture(models.RoleViewer)
	c := form.NewCreate("f1", f.deps)
	mustSet(t, c, models.FieldName, "Tape")
	mustSet(t, c, models.FieldQuantity, "8")
	mustSet(t, c, models.FieldCategory, "Office")

	view, err := c.Submit(context.Background())
	if !errors.Is(err, form.ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
	if f.writer.Writes() != 0 || f.describer.Calls() != 0 || f.refreshes != 0 {
		t.Error("viewer submit must not make any call")
	}
	if view.Draft.Name != "Tape" {
		t.Error("draft should be untouched")
	}
}

func TestSubmit_EditUpdatesAndCloses(t *testing.T) {
	f := newFixture(models.RoleAdmin)
	c := form.NewEdit("f1", models.Item{
		ID: "42", Name: "Stapler", Quantity: 4, Category: "Office",
		Description: "Heavy duty", Status: models.StatusLowStock,
	}, f.deps)

	view := c.View()
	if view.Draft.Quantity != "4" || view.ItemID != "42" {
		t.Fatalf("edit form not pre-filled: %+v", view)
	}

	mustSet(t, c, models.FieldQuantity, "40")
	mustSet(t, c, models.FieldDescription, "")

	view, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	updated, ok := f.writer.Updated["42"]
	if !ok {
		t.Fatal("expected update for item 42")
	}
	if updated.Quantity != 40 || updated.Status != models.StatusInStock {
		t.Errorf("unexpected update %+v", updated)
	}
	if f.describer.Calls() != 1 {
		t.Error("blank description should be generated on edit too")
	}
	if view.State != models.FormStateClosed {
		t.Errorf("edit form should close, got %s", view.State)
	}
	if _, err := c.SetField(models.FieldName, "X"); !errors.Is(err, form.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestSubmit_WriteFailureKeepsDraft(t *testing.T) {
	f := newFixture(models.RoleAdmin)
	f.writer.Err = errors.New("backend down")
	c := form.NewCreate("f1", f.deps)
	mustSet(t, c, models.FieldName, "Tape")
	mustSet(t, c, models.FieldQuantity, "8")
	mustSet(t, c, models.FieldCategory, "Office")

	view, err := c.Submit(context.Background())
	if err == nil {
		t.Fatal("expected write error")
	}
	if view.State != models.FormStateEditing {
		t.Errorf("form should return to editing, got %s", view.State)
	}
	if view.LastError == "" {
		t.Error("failure should be recorded on the form")
	}
	if view.Draft.Name != "Tape" || view.Draft.Description == "" {
		t.Errorf("draft should survive with generated description, got %+v", view.Draft)
	}
	if f.refreshes != 0 {
		t.Error("no refresh after a failed write")
	}
}

func TestSubmit_StaleAfterCancel(t *testing.T) {
	f := newFixture(models.RoleAdmin)
	f.describer.Started = make(chan struct{})
	f.describer.Release = make(chan struct{})
	c := form.NewCreate("f1", f.deps)
	mustSet(t, c, models.FieldName, "Tape")
	mustSet(t, c, models.FieldQuantity, "8")
	mustSet(t, c, models.FieldCategory, "Office")

	type result struct {
		view models.FormView
		err  error
	}
	done := make(chan result, 1)
	go func() {
		view, err := c.Submit(context.Background())
		done <- result{view, err}
	}()

	<-f.describer.Started
	if _, err := c.SetField(models.FieldName, "Other"); !errors.Is(err, form.ErrBusy) {
		t.Errorf("expected ErrBusy while submitting, got %v", err)
	}
	if _, err := c.Submit(context.Background()); !errors.Is(err, form.ErrBusy) {
		t.Errorf("expected ErrBusy for a second submit, got %v", err)
	}
	c.Cancel()
	close(f.describer.Release)

	res := <-done
	if !errors.Is(res.err, form.ErrStale) {
		t.Fatalf("expected ErrStale, got %v", res.err)
	}
	if f.writer.Writes() != 0 {
		t.Error("stale submit must not write")
	}
	if res.view.Draft.Description != "" {
		t.Errorf("generated text must not attach to a closed form, got %q", res.view.Draft.Description)
	}
}

func TestSubmit_StaleAfterReset(t *testing.T) {
	f := newFixture(models.RoleAdmin)
	f.describer.Started = make(chan struct{})
	f.describer.Release = make(chan struct{})
	c := form.NewCreate("f1", f.deps)
	mustSet(t, c, models.FieldName, "Tape")
	mustSet(t, c, models.FieldCategory, "Office")

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		done <- err
	}()

	<-f.describer.Started
	c.Reset()
	close(f.describer.Release)

	if err := <-done; !errors.Is(err, form.ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	view := c.View()
	if view.State != models.FormStateEditing || view.Draft.Description != "" {
		t.Errorf("reset form must stay clean, got %+v", view)
	}
}

func TestSubmit_OversizedQuantityMakesNoCalls(t *testing.T) {
	f := newFixture(models.RoleAdmin)
	c := form.NewCreate("f1", f.deps)
	mustSet(t, c, models.FieldName, "Pads")
	mustSet(t, c, models.FieldCategory, "Office")
	view := mustSet(t, c, models.FieldQuantity, "99999999999999999999")

	if view.Errors[models.FieldQuantity] == "" {
		t.Fatal("an oversized quantity should be flagged on the field")
	}

	view, err := c.Submit(context.Background())
	if !errors.Is(err, form.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if f.describer.Calls() != 0 {
		t.Errorf("refused submit must not generate a description, got %d calls", f.describer.Calls())
	}
	if f.writer.Writes() != 0 || f.refreshes != 0 {
		t.Error("refused submit must not write or refresh")
	}
	if view.State != models.FormStateEditing || view.Draft.Description != "" {
		t.Errorf("draft should be untouched, got %+v", view)
	}
}
