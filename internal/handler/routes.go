package handler

import "github.com/gofiber/fiber/v2"

// Endpoints is the machine-readable route list returned by the banner and
// the 404 handler.
var Endpoints = []string{
	"GET /",
	"GET /health",
	"GET /test",
	"POST /create-checkout-session",
	"GET /verify-session/:sessionId",
	"GET /payment-success",
	"GET /payment-cancel",
}

func Register(app *fiber.App, h *PaymentHandler) {
	app.Get("/", h.Banner)
	app.Get("/health", h.Health)
	app.Get("/test", h.Diagnostics)

	app.Post("/create-checkout-session", h.CreateCheckoutSession)
	// Bare /verify-session still reaches the handler so a missing id gets a
	// 400 instead of a 404
	app.Get("/verify-session", h.VerifySession)
	app.Get("/verify-session/:sessionId", h.VerifySession)

	app.Get("/payment-success", h.PaymentSuccess)
	app.Get("/payment-cancel", h.PaymentCancel)

	// Catch-all, must stay last
	app.Use(h.NotFound)
}
