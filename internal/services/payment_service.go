package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"ticket-storefront/internal/clock"
	"ticket-storefront/internal/status"
	"ticket-storefront/internal/store"
	"ticket-storefront/models"
	"ticket-storefront/monitoring"
	"ticket-storefront/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var cardFieldMessages = map[string]string{
	"card_number":     "Invalid card number",
	"cardholder_name": "Name is required",
	"expiry_month":    "Invalid month",
	"expiry_year":     "Card expired",
	"cvv":             "Invalid CVV",
	"billing_zip":     "Invalid ZIP code",
}

// PaymentService keeps the user's saved cards. Only the last four digits, a
// token and a bcrypt fingerprint of the number are stored.
type PaymentService struct {
	cards      store.Collection[models.PaymentCard]
	validate   *validator.Validate
	clock      clock.Clock
	bcryptCost int
}

func NewPaymentService(cards store.Collection[models.PaymentCard], clk clock.Clock, bcryptCost int) *PaymentService {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}

	return &PaymentService{
		cards:      cards,
		validate:   v,
		clock:      clk,
		bcryptCost: bcryptCost,
	}
}

// NormalizeCard strips spaces and dashes from the number and trims text fields.
// Two-digit expiry years are read as 20yy.
func NormalizeCard(in models.CardInput) models.CardInput {
	in.CardNumber = strings.NewReplacer(" ", "", "-", "").Replace(in.CardNumber)
	in.CardholderName = strings.TrimSpace(in.CardholderName)
	in.CVV = strings.TrimSpace(in.CVV)
	in.BillingZip = strings.TrimSpace(in.BillingZip)
	if in.ExpiryYear > 0 && in.ExpiryYear < 100 {
		in.ExpiryYear += 2000
	}
	return in
}

// ValidateCard returns a *status.ValidationError naming every bad field.
func (s *PaymentService) ValidateCard(in models.CardInput) error {
	in = NormalizeCard(in)
	verr := status.NewValidationError()

	if err := s.validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			verr.Add(fe.Field(), cardFieldMessages[fe.Field()])
		}
	}

	if _, bad := verr.Fields["expiry_month"]; !bad && in.ExpiryYear > 0 {
		now := s.clock.Now()
		if in.ExpiryYear < now.Year() || (in.ExpiryYear == now.Year() && in.ExpiryMonth < int(now.Month())) {
			verr.Add("expiry_year", cardFieldMessages["expiry_year"])
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// DetectBrand reads the brand from the leading digits; anything unrecognized is visa.
func DetectBrand(number string) models.CardBrand {
	switch {
	case strings.HasPrefix(number, "34"), strings.HasPrefix(number, "37"):
		return models.BrandAmex
	case strings.HasPrefix(number, "5"):
		return models.BrandMastercard
	case strings.HasPrefix(number, "6"):
		return models.BrandDiscover
	default:
		return models.BrandVisa
	}
}

func (s *PaymentService) AddCard(ctx context.Context, userID string, in models.CardInput, setAsDefault bool) (*models.PaymentCard, error) {
	if userID == "" {
		return nil, status.ErrNotAuthenticated
	}
	if err := s.ValidateCard(in); err != nil {
		monitoring.TrackCardOperation("add", "invalid")
		return nil, err
	}
	in = NormalizeCard(in)

	token, err := utils.NewCardToken()
	if err != nil {
		return nil, fmt.Errorf("generate card token: %w", err)
	}
	fingerprint, err := bcrypt.GenerateFromPassword([]byte(in.CardNumber), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("fingerprint card: %w", err)
	}

	card := models.PaymentCard{
		ID:             "card_" + uuid.NewString(),
		Brand:          DetectBrand(in.CardNumber),
		Last4:          in.CardNumber[len(in.CardNumber)-4:],
		CardholderName: in.CardholderName,
		ExpiryMonth:    in.ExpiryMonth,
		ExpiryYear:     in.ExpiryYear,
		BillingZip:     in.BillingZip,
		IsDefault:      setAsDefault,
		Token:          token,
		Fingerprint:    string(fingerprint),
		AddedAt:        s.clock.Now(),
	}

	err = s.cards.Mutate(ctx, userID, func(cur []models.PaymentCard) ([]models.PaymentCard, error) {
		for _, c := range cur {
			if c.Last4 != card.Last4 || c.Fingerprint == "" {
				continue
			}
			if bcrypt.CompareHashAndPassword([]byte(c.Fingerprint), []byte(in.CardNumber)) == nil {
				return nil, status.ErrDuplicateCard
			}
		}

		if len(cur) == 0 {
			card.IsDefault = true
		}
		if card.IsDefault {
			for i := range cur {
				cur[i].IsDefault = false
			}
		}
		return append(cur, card), nil
	})
	if err != nil {
		monitoring.TrackCardOperation("add", "failed")
		slog.Error("Failed to save payment card", "error", err, "user_id", userID)
		return nil, storeErr(err)
	}

	monitoring.TrackCardOperation("add", "success")
	public := card.Public()
	return &public, nil
}

func (s *PaymentService) ListCards(ctx context.Context, userID string) ([]models.PaymentCard, error) {
	if userID == "" {
		return nil, status.ErrNotAuthenticated
	}
	cards, err := s.cards.LoadAll(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}

	out := make([]models.PaymentCard, len(cards))
	for i, c := range cards {
		out[i] = c.Public()
	}
	return out, nil
}

// DefaultCard returns the flagged default, or the first card when none is
// flagged. A user with no cards gets nil.
func (s *PaymentService) DefaultCard(ctx context.Context, userID string) (*models.PaymentCard, error) {
	cards, err := s.ListCards(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, nil
	}
	for _, c := range cards {
		if c.IsDefault {
			return &c, nil
		}
	}
	return &cards[0], nil
}

func (s *PaymentService) SetDefault(ctx context.Context, userID, cardID string) error {
	if userID == "" {
		return status.ErrNotAuthenticated
	}

	err := s.cards.Mutate(ctx, userID, func(cur []models.PaymentCard) ([]models.PaymentCard, error) {
		found := false
		for i := range cur {
			cur[i].IsDefault = cur[i].ID == cardID
			found = found || cur[i].IsDefault
		}
		if !found {
			return nil, status.ErrCardNotFound
		}
		return cur, nil
	})
	if err != nil {
		monitoring.TrackCardOperation("set_default", "failed")
		return storeErr(err)
	}

	monitoring.TrackCardOperation("set_default", "success")
	return nil
}

// DeleteCard removes a card. When the default goes, the first remaining card
// becomes the default.
func (s *PaymentService) DeleteCard(ctx context.Context, userID, cardID string) error {
	if userID == "" {
		return status.ErrNotAuthenticated
	}

	err := s.cards.Mutate(ctx, userID, func(cur []models.PaymentCard) ([]models.PaymentCard, error) {
		out := make([]models.PaymentCard, 0, len(cur))
		hasDefault := false
		for _, c := range cur {
			if c.ID == cardID {
				continue
			}
			hasDefault = hasDefault || c.IsDefault
			out = append(out, c)
		}
		if len(out) == len(cur) {
			return nil, status.ErrCardNotFound
		}
		if len(out) > 0 && !hasDefault {
			out[0].IsDefault = true
		}
		return out, nil
	})
	if err != nil {
		monitoring.TrackCardOperation("delete", "failed")
		return storeErr(err)
	}

	monitoring.TrackCardOperation("delete", "success")
	return nil
}
