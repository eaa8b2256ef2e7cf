package models

import (
	"time"
)

type CardBrand string

const (
	BrandVisa       CardBrand = "visa"
	BrandMastercard CardBrand = "mastercard"
	BrandAmex       CardBrand = "amex"
	BrandDiscover   CardBrand = "discover"
)

// PaymentCard is the stored form of a card. The full number and CVV are never kept.
type PaymentCard struct {
	ID             string    `json:"id"`
	Brand          CardBrand `json:"brand"`
	Last4          string    `json:"last4"`
	CardholderName string    `json:"cardholder_name"`
	ExpiryMonth    int       `json:"expiry_month"`
	ExpiryYear     int       `json:"expiry_year"`
	BillingZip     string    `json:"billing_zip"`
	IsDefault      bool      `json:"is_default"`
	Token          string    `json:"token"`
	Fingerprint    string    `json:"fingerprint,omitempty"`
	AddedAt        time.Time `json:"added_at"`
}

func (c PaymentCard) RecordID() string { return c.ID }

// CardInput is the raw add-card form.
type CardInput struct {
	CardNumber     string `json:"card_number" validate:"required,number,min=13,max=19"`
	CardholderName string `json:"cardholder_name" validate:"required"`
	ExpiryMonth    int    `json:"expiry_month" validate:"min=1,max=12"`
	ExpiryYear     int    `json:"expiry_year" validate:"required"`
	CVV            string `json:"cvv" validate:"required,number,min=3,max=4"`
	BillingZip     string `json:"billing_zip" validate:"required,min=5"`
}

// Public drops the fingerprint before a card leaves the service.
func (c PaymentCard) Public() PaymentCard {
	c.Fingerprint = ""
	return c
}
