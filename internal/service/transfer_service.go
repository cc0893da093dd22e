package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/inventory-console/internal/describe"
	"github.com/inventory-console/internal/models"
	"github.com/inventory-console/internal/preferences"
	"github.com/inventory-console/internal/validation"
	"github.com/rs/zerolog"
)

var csvHeader = []string{"id", "name", "quantity", "category", "description", "status"}

// transferService is the concrete implementation of TransferService
type transferService struct {
	api       ItemsAPI
	console   *consoleService
	roles     *preferences.RoleStore
	describer describe.Describer
	log       zerolog.Logger
}

// newTransferService creates a new TransferService
func newTransferService(api ItemsAPI, console *consoleService, roles *preferences.RoleStore, describer describe.Describer, log zerolog.Logger) *transferService {
	return &transferService{
		api:       api,
		console:   console,
		roles:     roles,
		describer: describer,
		log:       log.With().Str("service", "transfer").Logger(),
	}
}

// Export streams the backend's full item list in the requested format
func (s *transferService) Export(ctx context.Context, w http.ResponseWriter, format models.ExportFormat) error {
	if !models.ValidExportFormats[format] {
		return fmt.Errorf("unsupported format: %s", format)
	}

	items, err := s.api.List(ctx)
	if err != nil {
		return err
	}
	s.log.Info().Str("format", string(format)).Int("count", len(items)).Msg("Starting items export")

	switch format {
	case models.ExportNDJSON:
		return s.streamNDJSON(w, items)
	case models.ExportJSON:
		return s.streamJSON(w, items)
	default:
		return s.streamCSV(w, items)
	}
}

func (s *transferService) streamNDJSON(w http.ResponseWriter, items []models.Item) error {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", "attachment; filename=items.ndjson")

	flusher, _ := w.(http.Flusher)
	for i, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return err
		}
		w.Write(data)
		w.Write([]byte("\n"))

		// Flush every 100 records for streaming
		if (i+1)%100 == 0 && flusher != nil {
			flusher.Flush()
		}
	}
	return nil
}

func (s *transferService) streamJSON(w http.ResponseWriter, items []models.Item) error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=items.json")

	w.Write([]byte("["))
	for i, item := range items {
		if i > 0 {
			w.Write([]byte(","))
		}
		data, err := json.Marshal(item)
		if err != nil {
			return err
		}
		w.Write(data)
	}
	w.Write([]byte("]"))
	return nil
}

func (s *transferService) streamCSV(w http.ResponseWriter, items []models.Item) error {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=items.csv")

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, item := range items {
		if err := writer.Write([]string{
			item.ID.String(),
			item.Name,
			strconv.Itoa(item.Quantity),
			item.Category,
			item.Description,
			string(item.Status),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// Import creates one item per valid CSV row and refreshes the list once.
// Viewers are refused before the file is read.
func (s *transferService) Import(ctx context.Context, r io.Reader) (*models.ImportReport, error) {
	if !s.roles.CanMutate() {
		return nil, ErrReadOnly
	}

	start := time.Now()
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrMalformedImport, err)
	}
	headerMap := make(map[string]int)
	for i, h := range header {
		headerMap[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{models.FieldName, models.FieldQuantity, models.FieldCategory} {
		if _, ok := headerMap[required]; !ok {
			return nil, fmt.Errorf("%w: missing %q column", ErrMalformedImport, required)
		}
	}

	report := &models.ImportReport{}

	for {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return report, fmt.Errorf("read import file: %w", err)
			}
			report.TotalRecords++
			report.FailedCount++
			report.Errors = append(report.Errors, models.ValidationError{Line: parseErr.StartLine, Field: "csv", Message: err.Error()})
			continue
		}
		report.TotalRecords++
		// Physical line where the record starts; quoted fields may span lines
		lineNum, _ := reader.FieldPos(0)

		rec := &models.ItemRecord{
			Name:        getField(record, headerMap, models.FieldName),
			Quantity:    getField(record, headerMap, models.FieldQuantity),
			Category:    getField(record, headerMap, models.FieldCategory),
			Description: getField(record, headerMap, models.FieldDescription),
			Status:      getField(record, headerMap, models.FieldStatus),
		}

		if errs := validation.ValidateRecord(rec, lineNum); len(errs) > 0 {
			report.FailedCount++
			report.Errors = append(report.Errors, errs...)
			continue
		}

		item := s.recordToItem(ctx, rec)
		if err := s.api.Create(ctx, item); err != nil {
			s.log.Error().Err(err).Int("line", lineNum).Msg("Import create failed")
			report.FailedCount++
			report.Errors = append(report.Errors, models.ValidationError{Line: lineNum, Field: "api", Message: err.Error()})
			continue
		}
		report.SuccessfulCount++
	}

	report.DurationMs = time.Since(start).Milliseconds()

	if report.SuccessfulCount > 0 {
		if _, err := s.console.Refresh(ctx); err != nil {
			return report, fmt.Errorf("items imported but list refresh failed: %w", err)
		}
	}

	s.log.Info().
		Int("total", report.TotalRecords).
		Int("successful", report.SuccessfulCount).
		Int("failed", report.FailedCount).
		Int64("duration_ms", report.DurationMs).
		Msg("Import completed")

	return report, nil
}

// recordToItem converts a validated row, filling status and description
func (s *transferService) recordToItem(ctx context.Context, rec *models.ItemRecord) models.Item {
	name := strings.TrimSpace(rec.Name)
	category := strings.TrimSpace(rec.Category)
	qty, _ := strconv.Atoi(strings.TrimSpace(rec.Quantity))

	status := validation.SuggestStatus(name, qty)
	if rec.Status != "" {
		if parsed, err := models.ParseStatus(rec.Status); err == nil {
			status = parsed
		}
	}

	description := strings.TrimSpace(rec.Description)
	if description == "" && s.describer != nil {
		description = s.describer.Generate(ctx, name, category)
	}

	return models.Item{
		Name:        name,
		Quantity:    qty,
		Category:    category,
		Description: description,
		Status:      status,
	}
}

// getField returns a trimmed column value, or "" when the column is absent
func getField(record []string, headerMap map[string]int, field string) string {
	if idx, ok := headerMap[field]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}
