package validation

import (
	"strconv"
	"strings"

	"github.com/inventory-console/internal/models"
)

const (
	lowStockThreshold  = 5
	highStockThreshold = 20
)

// SuggestStatus guesses a stock status from an item's name and quantity.
// Rules are evaluated top to bottom and the first match wins.
func SuggestStatus(name string, quantity int) models.Status {
	if name == "" && quantity == 0 {
		return models.StatusInStock
	}
	if quantity == 0 {
		return models.StatusDiscontinued
	}
	if strings.Contains(strings.ToLower(name), "order") {
		return models.StatusOrdered
	}
	if quantity <= lowStockThreshold {
		return models.StatusLowStock
	}
	if quantity >= highStockThreshold {
		return models.StatusInStock
	}
	return models.StatusInStock
}

// SuggestStatusText is SuggestStatus for form input, where quantity may be
// blank. A blank quantity never matches the numeric rules.
func SuggestStatusText(name, quantity string) models.Status {
	if quantity == "" {
		if name != "" && strings.Contains(strings.ToLower(name), "order") {
			return models.StatusOrdered
		}
		return models.StatusInStock
	}
	n, err := strconv.Atoi(quantity)
	if err != nil {
		// only reachable on overflow, digits are enforced upstream
		return models.StatusInStock
	}
	return SuggestStatus(name, n)
}
