package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/safecircleafrica-cyber/Safecircle/internal/config"
	"github.com/safecircleafrica-cyber/Safecircle/internal/models"
	"github.com/safecircleafrica-cyber/Safecircle/internal/views"
)

// --- Mock service ---

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreateCheckoutSession(req models.PaymentRequest, origin string) (*models.CheckoutSession, error) {
	args := m.Called(req, origin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CheckoutSession), args.Error(1)
}

func (m *MockPaymentService) VerifySession(sessionID string) (*models.SessionStatus, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionStatus), args.Error(1)
}

func newTestApp(svc PaymentService) *fiber.App {
	cfg := &config.Config{
		Port:        "3000",
		Environment: "test",
		AppScheme:   "safecircle",
		Stripe:      config.StripeConfig{SecretKey: "sk_test_123"},
	}

	engine := html.NewFileSystem(http.FS(views.FS), ".html")
	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: NewErrorHandler(cfg, zap.NewNop()),
	})

	Register(app, NewPaymentHandler(svc, cfg, zap.NewNop()))
	return app
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body := map[string]interface{}{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// --- Tests ---

func TestCreateCheckoutSessionHandler(t *testing.T) {
	t.Run("returns session id and url on success", func(t *testing.T) {
		svc := new(MockPaymentService)
		svc.On("CreateCheckoutSession", mock.Anything, "https://app.example.com").
			Return(&models.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/cs_test_1"}, nil).Once()

		app := newTestApp(svc)
		payload := `{"amount": 19.99, "userId": "u1", "planId": "p1", "planName": "Pro"}`
		req := httptest.NewRequest(http.MethodPost, "/create-checkout-session", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Origin", "https://app.example.com")

		resp, err := app.Test(req)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "cs_test_1", body["id"])
		assert.Equal(t, "https://checkout.stripe.com/c/cs_test_1", body["url"])
		svc.AssertExpectations(t)
	})

	t.Run("validation error maps to 400 with required and received", func(t *testing.T) {
		svc := new(MockPaymentService)
		svc.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return(nil, &models.ValidationError{
			Message:  "missing required fields: planId, planName",
			Required: []string{"planId", "planName"},
			Received: map[string]interface{}{"amount": "19.99", "userId": "u1"},
		}).Once()

		app := newTestApp(svc)
		payload := `{"amount": 19.99, "userId": "u1"}`
		req := httptest.NewRequest(http.MethodPost, "/create-checkout-session", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, false, body["success"])
		assert.ElementsMatch(t, []interface{}{"planId", "planName"}, body["required"])
		received := body["received"].(map[string]interface{})
		assert.Equal(t, "u1", received["userId"])
	})

	t.Run("processor error maps to 500 with stripe classification", func(t *testing.T) {
		svc := new(MockPaymentService)
		svc.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return(nil, &models.ProcessorError{
			Message: "Invalid API Key provided",
			Type:    "authentication_error",
		}).Once()

		app := newTestApp(svc)
		payload := `{"amount": 19.99, "userId": "u1", "planId": "p1", "planName": "Pro"}`
		req := httptest.NewRequest(http.MethodPost, "/create-checkout-session", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Invalid API Key provided", body["error"])
		assert.Equal(t, "authentication_error", body["type"])
	})

	t.Run("non-numeric amount is rejected before the service is called", func(t *testing.T) {
		svc := new(MockPaymentService)
		app := newTestApp(svc)

		payload := `{"amount": "lots", "userId": "u1", "planId": "p1", "planName": "Pro"}`
		req := httptest.NewRequest(http.MethodPost, "/create-checkout-session", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		svc.AssertNotCalled(t, "CreateCheckoutSession")
	})
}

func TestVerifySessionHandler(t *testing.T) {
	t.Run("relays status, amount and metadata", func(t *testing.T) {
		svc := new(MockPaymentService)
		svc.On("VerifySession", "cs_test_1").Return(&models.SessionStatus{
			Status:   "paid",
			Amount:   19.99,
			Metadata: map[string]string{"userId": "u1", "planId": "p1", "planName": "Pro"},
		}, nil).Once()

		app := newTestApp(svc)
		req := httptest.NewRequest(http.MethodGet, "/verify-session/cs_test_1", nil)

		resp, err := app.Test(req)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "paid", body["status"])
		assert.Equal(t, 19.99, body["amount"])
		metadata := body["metadata"].(map[string]interface{})
		assert.Equal(t, "u1", metadata["userId"])
		assert.Equal(t, "Pro", metadata["planName"])
		svc.AssertExpectations(t)
	})

	t.Run("missing session id maps to 400", func(t *testing.T) {
		svc := new(MockPaymentService)
		svc.On("VerifySession", "").Return(nil, models.NewValidationError("sessionId is required")).Once()

		app := newTestApp(svc)
		req := httptest.NewRequest(http.MethodGet, "/verify-session", nil)

		resp, err := app.Test(req)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		svc.AssertExpectations(t)
	})
}

func TestLandingPages(t *testing.T) {
	t.Run("success page shows the session id and app redirect", func(t *testing.T) {
		app := newTestApp(new(MockPaymentService))
		req := httptest.NewRequest(http.MethodGet, "/payment-success?session_id=cs_test_1", nil)

		resp, err := app.Test(req)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

		page, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(page), "cs_test_1")
		assert.Contains(t, string(page), "safecircle://payment-success")
		assert.Contains(t, string(page), "countdown")
	})

	t.Run("cancel page redirects without a session id", func(t *testing.T) {
		app := newTestApp(new(MockPaymentService))
		req := httptest.NewRequest(http.MethodGet, "/payment-cancel", nil)

		resp, err := app.Test(req)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		page, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(page), "safecircle://payment-cancel")
		assert.NotContains(t, string(page), "session-id\">cs_")
	})
}

func TestServiceRoutes(t *testing.T) {
	t.Run("banner lists the endpoints", func(t *testing.T) {
		app := newTestApp(new(MockPaymentService))
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Len(t, body["endpoints"], len(Endpoints))
	})

	t.Run("health reports ok with a timestamp", func(t *testing.T) {
		app := newTestApp(new(MockPaymentService))
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "ok", body["status"])
		assert.NotEmpty(t, body["timestamp"])
	})

	t.Run("diagnostics masks the stripe credential", func(t *testing.T) {
		app := newTestApp(new(MockPaymentService))
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, true, body["stripeConfigured"])
		assert.NotContains(t, body, "stripeSecretKey")
	})

	t.Run("unknown route returns 404 with the endpoint list", func(t *testing.T) {
		app := newTestApp(new(MockPaymentService))
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nonexistent", nil))

		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, false, body["success"])
		assert.ElementsMatch(t, []interface{}{
			"GET /",
			"GET /health",
			"GET /test",
			"POST /create-checkout-session",
			"GET /verify-session/:sessionId",
			"GET /payment-success",
			"GET /payment-cancel",
		}, body["endpoints"])
	})
}
