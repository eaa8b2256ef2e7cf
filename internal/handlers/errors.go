package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"ticket-storefront/internal/status"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

// respondError maps service errors onto API responses.
func respondError(e *core.RequestEvent, err error) error {
	var verr *status.ValidationError
	if errors.As(err, &verr) {
		return e.JSON(http.StatusBadRequest, map[string]any{
			"message": "Validation failed",
			"fields":  verr.Fields,
		})
	}

	switch {
	case errors.Is(err, status.ErrNotAuthenticated):
		return apis.NewUnauthorizedError("Unauthorized", nil)
	case errors.Is(err, status.ErrEmptySelection),
		errors.Is(err, status.ErrSeatingMode),
		errors.Is(err, status.ErrUnknownLayout):
		return apis.NewBadRequestError(err.Error(), nil)
	case errors.Is(err, status.ErrSeatUnavailable),
		errors.Is(err, status.ErrSeatHeld),
		errors.Is(err, status.ErrDuplicateCard),
		errors.Is(err, status.ErrTicketStatus):
		return apis.NewApiError(http.StatusConflict, err.Error(), nil)
	case errors.Is(err, status.ErrEventNotFound),
		errors.Is(err, status.ErrTicketNotFound),
		errors.Is(err, status.ErrCardNotFound),
		errors.Is(err, status.ErrRecordNotFound):
		return apis.NewNotFoundError(err.Error(), nil)
	case errors.Is(err, status.ErrPersistence):
		return apis.NewApiError(http.StatusServiceUnavailable, "Storage is temporarily unavailable, please try again", nil)
	}

	slog.Error("Unhandled request error", "error", err, "path", e.Request.URL.Path)
	return apis.NewApiError(http.StatusInternalServerError, "Something went wrong", nil)
}

func userID(e *core.RequestEvent) string {
	if e.Auth == nil {
		return ""
	}
	return e.Auth.Id
}
