package benchmark

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/inventory-console/internal/client"
	"github.com/inventory-console/internal/mocks"
	"github.com/inventory-console/internal/models"
	"github.com/inventory-console/internal/preferences"
	"github.com/inventory-console/internal/service"
	"github.com/inventory-console/internal/validation"
	"github.com/rs/zerolog"
)

func newServices(b *testing.B, seed int) *service.Services {
	b.Helper()
	backend := mocks.NewItemBackend()
	for i := 0; i < seed; i++ {
		backend.Seed(models.Item{
			Name:     fmt.Sprintf("Item %d", i),
			Quantity: i % 40,
			Category: "Bench",
			Status:   validation.SuggestStatus("Item", i%40),
		})
	}
	url := backend.Start()
	b.Cleanup(backend.Close)

	roles := preferences.NewRoleStore(preferences.NewMemoryStorage(), zerolog.Nop())
	api := client.New(url, 10*time.Second, zerolog.Nop())
	return service.NewServices(api, roles, mocks.NewMockDescriber(), zerolog.Nop())
}

// BenchmarkSuggestStatus benchmarks the status classifier
func BenchmarkSuggestStatus(b *testing.B) {
	names := []string{"Order pads", "Old stapler", "Blue pens", "Legacy printer"}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		validation.SuggestStatus(names[i%len(names)], i%30)
	}
}

// BenchmarkValidateField benchmarks keystroke validation
func BenchmarkValidateField(b *testing.B) {
	inputs := []struct{ field, value string }{
		{models.FieldName, "Order pads"},
		{models.FieldName, "R2D2"},
		{models.FieldQuantity, "120"},
		{models.FieldQuantity, "1a2b3"},
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		in := inputs[i%len(inputs)]
		validation.ValidateField(in.field, in.value)
	}
}

// BenchmarkExportCSV benchmarks CSV export of 1000 items through the items API
func BenchmarkExportCSV(b *testing.B) {
	services := newServices(b, 1000)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		if err := services.Transfer.Export(context.Background(), w, models.ExportCSV); err != nil {
			b.Fatal(err)
		}
	}

	b.ReportMetric(float64(1000*b.N)/b.Elapsed().Seconds(), "rows/sec")
}

// BenchmarkImportCSV benchmarks importing 100 rows per iteration
func BenchmarkImportCSV(b *testing.B) {
	services := newServices(b, 0)

	var sb strings.Builder
	sb.WriteString("name,quantity,category,description\n")
	for i := 0; i < 100; i++ {
		sb.WriteString(fmt.Sprintf("Bench item,%d,Bench,Seeded row\n", i))
	}
	data := sb.String()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		report, err := services.Transfer.Import(context.Background(), strings.NewReader(data))
		if err != nil {
			b.Fatal(err)
		}
		if report.SuccessfulCount != 100 {
			b.Fatalf("expected 100 imported rows, got %d", report.SuccessfulCount)
		}
	}

	b.ReportMetric(float64(100*b.N)/b.Elapsed().Seconds(), "rows/sec")
}
