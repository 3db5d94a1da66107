package service

import (
	"fmt"
	"strings"

	"EUrbana.dashboard/internal/models"
)

// ValidationError rejects client input before it reaches the backend.
type ValidationError struct {
	Field   string
	Missing bool
	Message string
}

func (e *ValidationError) Error() string {
	if e.Missing {
		return fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func missing(field string) error {
	return &ValidationError{Field: field, Missing: true}
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return missing("id")
	}
	return nil
}

func requireField(body models.Record, field string, aliases ...string) error {
	if body.String(append([]string{field}, aliases...)...) == "" {
		return missing(field)
	}
	return nil
}

// requireNumber checks that field holds a number, allowing numeric strings.
func requireNumber(body models.Record, field string) error {
	v, ok := body[field]
	if !ok || v == nil {
		return missing(field)
	}
	if _, ok := models.ParseNumber(v); !ok {
		return invalid(field, "not a number")
	}
	return nil
}
