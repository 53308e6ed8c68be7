package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v72"
	"go.uber.org/zap"

	"github.com/safecircleafrica-cyber/Safecircle/internal/config"
	"github.com/safecircleafrica-cyber/Safecircle/internal/models"
	"github.com/safecircleafrica-cyber/Safecircle/pkg/payment"
	"github.com/safecircleafrica-cyber/Safecircle/pkg/utils"
)

const defaultCurrency = "usd"

// CheckoutGateway is the processor surface the service depends on.
// pkg/payment.StripeGateway is the production implementation.
type CheckoutGateway interface {
	CreateCheckoutSession(p payment.CheckoutParams) (*payment.Session, error)
	GetCheckoutSession(sessionID string) (*payment.Session, error)
}

type PaymentService struct {
	gateway   CheckoutGateway
	validator *utils.Validator
	cfg       *config.Config
	logger    *zap.Logger
}

func NewPaymentService(gateway CheckoutGateway, validator *utils.Validator, cfg *config.Config, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		gateway:   gateway,
		validator: validator,
		cfg:       cfg,
		logger:    logger,
	}
}

// CreateCheckoutSession validates the request, converts the amount to minor
// units and asks Stripe for a hosted checkout session. origin is the
// request's Origin header, used as a fallback base for the return URLs.
func (s *PaymentService) CreateCheckoutSession(req models.PaymentRequest, origin string) (*models.CheckoutSession, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	amountMinor, err := toMinorUnits(req.Amount.String())
	if err != nil {
		return nil, err
	}

	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = defaultCurrency
	}

	successURL, cancelURL := s.returnURLs(req, origin)

	session, err := s.gateway.CreateCheckoutSession(payment.CheckoutParams{
		AmountMinor: amountMinor,
		Currency:    currency,
		ProductName: req.PlanName,
		Description: fmt.Sprintf("%s plan (monthly)", req.PlanName),
		SuccessURL:  successURL,
		CancelURL:   cancelURL,
		Metadata: map[string]string{
			"userId":           req.UserID,
			"planId":           req.PlanID,
			"planName":         req.PlanName,
			"subscriptionType": "monthly",
		},
	})
	if err != nil {
		return nil, processorError("failed to create checkout session", err)
	}

	s.logger.Info("checkout session created",
		zap.String("session_id", session.ID),
		zap.String("user_id", req.UserID),
		zap.String("plan_id", req.PlanID),
		zap.Int64("amount_minor", amountMinor),
		zap.String("currency", currency),
	)

	return &models.CheckoutSession{
		ID:  session.ID,
		URL: session.URL,
	}, nil
}

// VerifySession fetches the session from Stripe and relays its status,
// amount (converted back to major units) and metadata verbatim.
func (s *PaymentService) VerifySession(sessionID string) (*models.SessionStatus, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, models.NewValidationError("sessionId is required")
	}

	session, err := s.gateway.GetCheckoutSession(sessionID)
	if err != nil {
		return nil, processorError("failed to retrieve checkout session", err)
	}

	metadata := session.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}

	amount := decimal.NewFromInt(session.AmountTotal).
		Div(decimal.NewFromInt(100)).
		InexactFloat64()

	s.logger.Info("checkout session verified",
		zap.String("session_id", session.ID),
		zap.String("payment_status", session.PaymentStatus),
	)

	return &models.SessionStatus{
		Status:   session.PaymentStatus,
		Amount:   amount,
		Metadata: metadata,
	}, nil
}

func (s *PaymentService) validateRequest(req models.PaymentRequest) error {
	received := receivedFields(req)

	var missing []string
	if req.Amount.String() == "" {
		missing = append(missing, "amount")
	}

	if err := s.validator.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return models.NewValidationError(err.Error())
		}
		for _, fe := range fieldErrs {
			switch fe.Tag() {
			case "required":
				missing = append(missing, fe.Field())
			case "iso4217":
				return &models.ValidationError{
					Message:  "currency must be a three-letter ISO 4217 code",
					Received: received,
				}
			}
		}
	}

	if len(missing) > 0 {
		return &models.ValidationError{
			Message:  "missing required fields: " + strings.Join(missing, ", "),
			Required: missing,
			Received: received,
		}
	}

	amount, err := decimal.NewFromString(req.Amount.String())
	if err != nil {
		return &models.ValidationError{
			Message:  "amount must be a number",
			Received: received,
		}
	}
	if !amount.IsPositive() {
		return &models.ValidationError{
			Message:  "amount must be greater than zero",
			Received: received,
		}
	}

	return nil
}

// receivedFields echoes back exactly the request fields the caller sent,
// for 400 responses.
func receivedFields(req models.PaymentRequest) map[string]interface{} {
	received := map[string]interface{}{}
	if req.Amount.String() != "" {
		received["amount"] = req.Amount
	}
	if req.Currency != "" {
		received["currency"] = req.Currency
	}
	if req.UserID != "" {
		received["userId"] = req.UserID
	}
	if req.PlanID != "" {
		received["planId"] = req.PlanID
	}
	if req.PlanName != "" {
		received["planName"] = req.PlanName
	}
	if req.SuccessURL != "" {
		received["successUrl"] = req.SuccessURL
	}
	if req.CancelURL != "" {
		received["cancelUrl"] = req.CancelURL
	}
	return received
}

// toMinorUnits converts a major-unit decimal amount to integer minor units,
// rounding half away from zero (10.005 -> 1001).
func toMinorUnits(amount string) (int64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, models.NewValidationError("amount must be a number")
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// returnURLs resolves the browser return URLs: caller override first, then
// the configured frontend base, then the request origin, then this service
// itself. Stripe substitutes {CHECKOUT_SESSION_ID} on redirect.
func (s *PaymentService) returnURLs(req models.PaymentRequest, origin string) (string, string) {
	base := s.cfg.FrontendURL
	if base == "" {
		base = origin
	}
	if base == "" {
		base = "http://localhost:" + s.cfg.Port
	}
	base = strings.TrimRight(base, "/")

	successURL := req.SuccessURL
	if successURL == "" {
		successURL = base + "/payment-success?session_id={CHECKOUT_SESSION_ID}"
	}
	cancelURL := req.CancelURL
	if cancelURL == "" {
		cancelURL = base + "/payment-cancel"
	}

	return successURL, cancelURL
}

// processorError classifies a Stripe failure, keeping Stripe's own error
// type and code when it supplied them.
func processorError(message string, err error) *models.ProcessorError {
	pErr := &models.ProcessorError{
		Message: message,
		Err:     err,
	}

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.Msg != "" {
			pErr.Message = stripeErr.Msg
		}
		pErr.Type = string(stripeErr.Type)
		pErr.Code = string(stripeErr.Code)
	}

	return pErr
}
