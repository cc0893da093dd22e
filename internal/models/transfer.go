package models

// ExportFormat is an item list export encoding
type ExportFormat string

const (
	ExportCSV    ExportFormat = "csv"
	ExportNDJSON ExportFormat = "ndjson"
	ExportJSON   ExportFormat = "json"
)

// ValidExportFormats defines the accepted export encodings
var ValidExportFormats = map[ExportFormat]bool{
	ExportCSV:    true,
	ExportNDJSON: true,
	ExportJSON:   true,
}

// ValidationError represents a single validation error
type ValidationError struct {
	Line    int         `json:"line"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ItemRecord is one row of an item import file
type ItemRecord struct {
	Name        string `csv:"name"`
	Quantity    string `csv:"quantity"`
	Category    string `csv:"category"`
	Description string `csv:"description"`
	Status      string `csv:"status"`
}

// ImportReport summarises a bulk item import
type ImportReport struct {
	TotalRecords    int               `json:"total_records"`
	SuccessfulCount int               `json:"successful"`
	FailedCount     int               `json:"failed"`
	DurationMs      int64             `json:"duration_ms"`
	Errors          []ValidationError `json:"errors,omitempty"`
}
