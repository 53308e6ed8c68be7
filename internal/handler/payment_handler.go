package handler

import (
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/safecircleafrica-cyber/Safecircle/internal/config"
	"github.com/safecircleafrica-cyber/Safecircle/internal/models"
)

// PaymentService is what the handler needs from the service layer.
type PaymentService interface {
	CreateCheckoutSession(req models.PaymentRequest, origin string) (*models.CheckoutSession, error)
	VerifySession(sessionID string) (*models.SessionStatus, error)
}

type PaymentHandler struct {
	paymentService PaymentService
	cfg            *config.Config
	logger         *zap.Logger
}

func NewPaymentHandler(paymentService PaymentService, cfg *config.Config, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		cfg:            cfg,
		logger:         logger,
	}
}

func (h *PaymentHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	var req models.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.NewValidationError("invalid request body: amount must be a number and the body valid JSON")
	}

	session, err := h.paymentService.CreateCheckoutSession(req, c.Get("Origin"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"id":      session.ID,
		"url":     session.URL,
	})
}

func (h *PaymentHandler) VerifySession(c *fiber.Ctx) error {
	status, err := h.paymentService.VerifySession(c.Params("sessionId"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"status":   status.Status,
		"amount":   status.Amount,
		"metadata": status.Metadata,
	})
}

// Landing pages shown after Stripe redirects the browser back. They hold no
// state and verify nothing; after a short countdown the page hands control
// back to the app through its custom URL scheme. Authoritative confirmation
// comes from /verify-session.
const redirectCountdownSeconds = 3

func (h *PaymentHandler) PaymentSuccess(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")

	redirectURL := fmt.Sprintf("%s://payment-success", h.cfg.AppScheme)
	if sessionID != "" {
		redirectURL += "?session_id=" + url.QueryEscape(sessionID)
	}

	return c.Render("landing", fiber.Map{
		"Kind":        "success",
		"Icon":        "✓",
		"Title":       "Payment Successful",
		"Message":     "Thank you! Your payment has been received.",
		"SessionID":   sessionID,
		"Seconds":     redirectCountdownSeconds,
		"RedirectURL": redirectURL,
	})
}

func (h *PaymentHandler) PaymentCancel(c *fiber.Ctx) error {
	return c.Render("landing", fiber.Map{
		"Kind":        "cancel",
		"Icon":        "✕",
		"Title":       "Payment Cancelled",
		"Message":     "Your payment was cancelled. No charge was made.",
		"SessionID":   "",
		"Seconds":     redirectCountdownSeconds,
		"RedirectURL": fmt.Sprintf("%s://payment-cancel", h.cfg.AppScheme),
	})
}

func (h *PaymentHandler) Banner(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service":   "Safecircle Checkout Gateway",
		"status":    "running",
		"endpoints": Endpoints,
	})
}

func (h *PaymentHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Diagnostics reports the effective configuration with the credential
// masked. Not for production use.
func (h *PaymentHandler) Diagnostics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"environment":      h.cfg.Environment,
		"stripeConfigured": h.cfg.Stripe.SecretKey != "",
		"frontendUrl":      h.cfg.FrontendURL,
		"appScheme":        h.cfg.AppScheme,
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *PaymentHandler) NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success":   false,
		"error":     fmt.Sprintf("route %s %s not found", c.Method(), c.Path()),
		"endpoints": Endpoints,
	})
}
