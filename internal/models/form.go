package models

// Form field names
const (
	FieldName        = "name"
	FieldQuantity    = "quantity"
	FieldCategory    = "category"
	FieldDescription = "description"
	FieldStatus      = "status"
)

// FormMode tells whether a form creates a new item or edits an existing one
type FormMode string

const (
	FormModeCreate FormMode = "create"
	FormModeEdit   FormMode = "edit"
)

// FormState is the lifecycle state of a form instance
type FormState string

const (
	FormStateEditing    FormState = "editing"
	FormStateSubmitting FormState = "submitting"
	FormStateClosed     FormState = "closed"
)

// Draft is the in-progress copy of an item held by an open form.
// Quantity is kept as the digits typed so far.
type Draft struct {
	Name        string `json:"name"`
	Quantity    string `json:"quantity"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Status      Status `json:"status"`
}

// FormView is the API representation of an open form
type FormView struct {
	ID        string            `json:"form_id"`
	Mode      FormMode          `json:"mode"`
	ItemID    ItemID            `json:"item_id,omitempty"`
	State     FormState         `json:"state"`
	Draft     Draft             `json:"draft"`
	Errors    map[string]string `json:"errors"`
	LastError string            `json:"last_error,omitempty"`
}

// FieldChange is the body of a keystroke update
type FieldChange struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}
