package payment

import (
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/checkout/session"
)

// CheckoutParams describes one hosted checkout session to create: a single
// line item, quantity 1, priced in minor units.
type CheckoutParams struct {
	AmountMinor int64
	Currency    string
	ProductName string
	Description string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

// Session is the slice of Stripe's checkout session the adapter relays.
type Session struct {
	ID            string
	URL           string
	PaymentStatus string
	AmountTotal   int64
	Metadata      map[string]string
}

type StripeGateway struct {
	secretKey string
}

func NewStripeGateway(secretKey string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{
		secretKey: secretKey,
	}
}

func (g *StripeGateway) CreateCheckoutSession(p CheckoutParams) (*Session, error) {
	s, err := session.New(buildSessionParams(p))
	if err != nil {
		return nil, err
	}

	return fromStripeSession(s), nil
}

func (g *StripeGateway) GetCheckoutSession(sessionID string) (*Session, error) {
	s, err := session.Get(sessionID, nil)
	if err != nil {
		return nil, err
	}

	return fromStripeSession(s), nil
}

func buildSessionParams(p CheckoutParams) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(p.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(p.ProductName),
						Description: stripe.String(p.Description),
					},
					UnitAmount: stripe.Int64(p.AmountMinor),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}

	for key, value := range p.Metadata {
		params.AddMetadata(key, value)
	}

	return params
}

func fromStripeSession(s *stripe.CheckoutSession) *Session {
	return &Session{
		ID:            s.ID,
		URL:           s.URL,
		PaymentStatus: string(s.PaymentStatus),
		AmountTotal:   s.AmountTotal,
		Metadata:      s.Metadata,
	}
}
