package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inventory-console/internal/service"
)

// statusFor maps a service error to an HTTP status. Anything not
// recognised came from the items backend.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrReadOnly):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalid):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrBusy),
		errors.Is(err, service.ErrStale),
		errors.Is(err, service.ErrClosed):
		return http.StatusConflict
	case errors.Is(err, service.ErrFormNotFound),
		errors.Is(err, service.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrMalformedImport):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func respondError(c *gin.Context, err error, extra gin.H) {
	body := gin.H{"error": err.Error()}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(statusFor(err), body)
}
