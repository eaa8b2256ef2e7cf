package status

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotAuthenticated = errors.New("auth: user is not authenticated")
	ErrEmptySelection   = errors.New("checkout: nothing selected")
	ErrSeatingMode      = errors.New("checkout: event does not use this seating mode")
	ErrSeatUnavailable  = errors.New("checkout: seat is not available")
	ErrPersistence      = errors.New("store: persistence failed")
	ErrRecordNotFound   = errors.New("store: record not found")
	ErrEventNotFound    = errors.New("catalog: event not found")
	ErrUnknownLayout    = errors.New("venue: unknown layout kind")
	ErrTicketNotFound   = errors.New("ticket: ticket not found")
	ErrTicketStatus     = errors.New("ticket: invalid status transition")
	ErrCardNotFound     = errors.New("card: card not found")
	ErrDuplicateCard    = errors.New("card: card already saved")
	ErrSeatHeld         = errors.New("seat: seat is held by another session")
)

// ValidationError carries one message per invalid form field.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// NewValidationErrorFrom builds an error for a single field.
func NewValidationErrorFrom(field, message string) *ValidationError {
	e := NewValidationError()
	e.Add(field, message)
	return e
}

func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation: " + strings.Join(parts, "; ")
}
