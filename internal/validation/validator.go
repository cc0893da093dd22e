package validation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/inventory-console/internal/models"
)

const (
	MsgLettersOnly = "Only letters and spaces allowed."
	MsgDigitsOnly  = "Only numbers allowed."
	MsgTooLarge    = "Quantity is too large."
)

var (
	nameRegex     = regexp.MustCompile(`^[A-Za-z ]*$`)
	digitsRegex   = regexp.MustCompile(`^\d*$`)
	nonDigitRegex = regexp.MustCompile(`\D`)
)

// FieldResult is the outcome of validating one keystroke
type FieldResult struct {
	Accepted bool
	// Value is what should be stored in the draft when Applied is true
	Value   string
	Applied bool
	Message string
}

// ValidateField checks a raw form value for the given field.
//
// A rejected name is not applied. A quantity is always applied after
// non-digit characters are stripped, but is reported as rejected when
// stripping was needed or the digits do not fit in an int.
func ValidateField(field, raw string) FieldResult {
	switch field {
	case models.FieldName:
		if !nameRegex.MatchString(raw) {
			return FieldResult{Accepted: false, Message: MsgLettersOnly}
		}
		return FieldResult{Accepted: true, Value: raw, Applied: true}
	case models.FieldQuantity:
		value := SanitizeQuantity(raw)
		if value != "" {
			if _, err := strconv.Atoi(value); err != nil {
				return FieldResult{Accepted: false, Value: value, Applied: true, Message: MsgTooLarge}
			}
		}
		if value == raw {
			return FieldResult{Accepted: true, Value: raw, Applied: true}
		}
		return FieldResult{
			Accepted: false,
			Value:    value,
			Applied:  true,
			Message:  MsgDigitsOnly,
		}
	default:
		return FieldResult{Accepted: true, Value: raw, Applied: true}
	}
}

// SanitizeQuantity strips everything that is not an ASCII digit
func SanitizeQuantity(raw string) string {
	return nonDigitRegex.ReplaceAllString(raw, "")
}

// ValidateRecord validates an import row. It is stricter than ValidateField:
// nothing is self-corrected and required fields must be present.
func ValidateRecord(rec *models.ItemRecord, lineNum int) []models.ValidationError {
	var errors []models.ValidationError

	name := strings.TrimSpace(rec.Name)
	if name == "" {
		errors = append(errors, models.ValidationError{Line: lineNum, Field: models.FieldName, Message: "name is required"})
	} else if !nameRegex.MatchString(name) {
		errors = append(errors, models.ValidationError{Line: lineNum, Field: models.FieldName, Message: MsgLettersOnly, Value: rec.Name})
	}

	qty := strings.TrimSpace(rec.Quantity)
	if qty == "" {
		errors = append(errors, models.ValidationError{Line: lineNum, Field: models.FieldQuantity, Message: "quantity is required"})
	} else if !digitsRegex.MatchString(qty) {
		errors = append(errors, models.ValidationError{Line: lineNum, Field: models.FieldQuantity, Message: MsgDigitsOnly, Value: rec.Quantity})
	} else if _, err := strconv.Atoi(qty); err != nil {
		errors = append(errors, models.ValidationError{Line: lineNum, Field: models.FieldQuantity, Message: MsgTooLarge, Value: rec.Quantity})
	}

	if strings.TrimSpace(rec.Category) == "" {
		errors = append(errors, models.ValidationError{Line: lineNum, Field: models.FieldCategory, Message: "category is required"})
	}

	if status := strings.TrimSpace(rec.Status); status != "" {
		if _, err := models.ParseStatus(status); err != nil {
			errors = append(errors, models.ValidationError{
				Line:    lineNum,
				Field:   models.FieldStatus,
				Message: err.Error(),
				Value:   rec.Status,
			})
		}
	}

	return errors
}

// IsValidUUID checks if a string is a valid UUID
func IsValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
