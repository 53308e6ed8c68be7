package models

import "encoding/json"

// PaymentRequest is the body of POST /create-checkout-session. Amount is
// kept as json.Number so a non-numeric value fails decoding instead of
// silently becoming zero.
type PaymentRequest struct {
	Amount     json.Number `json:"amount"`
	Currency   string      `json:"currency" validate:"omitempty,iso4217"`
	UserID     string      `json:"userId" validate:"required"`
	PlanID     string      `json:"planId" validate:"required"`
	PlanName   string      `json:"planName" validate:"required"`
	SuccessURL string      `json:"successUrl"`
	CancelURL  string      `json:"cancelUrl"`
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// SessionStatus mirrors the processor's payment status verbatim
// (paid / unpaid / no_payment_required). Amount is in major units.
type SessionStatus struct {
	Status   string            `json:"status"`
	Amount   float64           `json:"amount"`
	Metadata map[string]string `json:"metadata"`
}
