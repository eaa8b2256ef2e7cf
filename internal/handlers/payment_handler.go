package handlers

import (
	"net/http"

	"ticket-storefront/internal/services"
	"ticket-storefront/models"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// ListCards - Saved cards, default first flagged
func (h *PaymentHandler) ListCards(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	ctx := e.Request.Context()
	cards, err := h.payments.ListCards(ctx, userID(e))
	if err != nil {
		return respondError(e, err)
	}
	def, err := h.payments.DefaultCard(ctx, userID(e))
	if err != nil {
		return respondError(e, err)
	}

	resp := map[string]any{"cards": cards}
	if def != nil {
		resp["default_card_id"] = def.ID
	}
	return e.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) AddCard(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		models.CardInput
		SetAsDefault bool `json:"set_as_default"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	card, err := h.payments.AddCard(e.Request.Context(), userID(e), req.CardInput, req.SetAsDefault)
	if err != nil {
		return respondError(e, err)
	}

	return e.JSON(http.StatusCreated, map[string]any{
		"message": "Payment method added",
		"card":    card,
	})
}

func (h *PaymentHandler) SetDefault(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	cardID := e.Request.PathValue("cardId")
	if err := h.payments.SetDefault(e.Request.Context(), userID(e), cardID); err != nil {
		return respondError(e, err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message": "Default payment method updated",
		"card_id": cardID,
	})
}

func (h *PaymentHandler) DeleteCard(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	cardID := e.Request.PathValue("cardId")
	if err := h.payments.DeleteCard(e.Request.Context(), userID(e), cardID); err != nil {
		return respondError(e, err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message": "Payment method removed",
		"card_id": cardID,
	})
}
