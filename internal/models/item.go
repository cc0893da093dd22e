package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Status describes the stock state of an inventory item
type Status string

const (
	StatusInStock      Status = "IN_STOCK"
	StatusLowStock     Status = "LOW_STOCK"
	StatusOrdered      Status = "ORDERED"
	StatusDiscontinued Status = "DISCONTINUED"
)

// ValidStatuses defines the statuses accepted by the items API
var ValidStatuses = map[Status]bool{
	StatusInStock:      true,
	StatusLowStock:     true,
	StatusOrdered:      true,
	StatusDiscontinued: true,
}

// ParseStatus normalises user input into a Status
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !ValidStatuses[status] {
		return "", fmt.Errorf("invalid status %q, must be one of: IN_STOCK, LOW_STOCK, ORDERED, DISCONTINUED", s)
	}
	return status, nil
}

// ItemID is the opaque identifier assigned by the backend.
// The items API may encode it as a JSON number or string.
type ItemID string

// UnmarshalJSON accepts both numeric and string identifiers
func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("item id: %w", err)
	}
	*id = ItemID(n.String())
	return nil
}

// MarshalJSON writes numeric identifiers back as numbers
func (id ItemID) MarshalJSON() ([]byte, error) {
	if id != "" && isDigits(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ItemID) String() string { return string(id) }

// Item represents one inventory record as exchanged with the items API
type Item struct {
	ID          ItemID `json:"id,omitempty"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Status      Status `json:"status"`
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
