package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/safecircleafrica-cyber/Safecircle/internal/config"
	"github.com/safecircleafrica-cyber/Safecircle/internal/handler"
	"github.com/safecircleafrica-cyber/Safecircle/internal/service"
	"github.com/safecircleafrica-cyber/Safecircle/internal/views"
	"github.com/safecircleafrica-cyber/Safecircle/pkg/logger"
	"github.com/safecircleafrica-cyber/Safecircle/pkg/payment"
	"github.com/safecircleafrica-cyber/Safecircle/pkg/utils"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration: ", err)
	}

	zlog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatal("failed to initialize logger: ", err)
	}
	defer zlog.Sync()

	// Stripe gateway
	stripeGateway := payment.NewStripeGateway(cfg.Stripe.SecretKey)

	// Validator
	validator := utils.NewValidator()

	// Services
	paymentService := service.NewPaymentService(stripeGateway, validator, cfg, zlog)

	// Handlers
	paymentHandler := handler.NewPaymentHandler(paymentService, cfg, zlog)

	// Router
	engine := html.NewFileSystem(http.FS(views.FS), ".html")
	app := fiber.New(fiber.Config{
		AppName:      "safecircle-checkout",
		Views:        engine,
		ErrorHandler: handler.NewErrorHandler(cfg, zlog),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST",
	}))
	app.Use(fiberlogger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	handler.Register(app, paymentHandler)

	zlog.Info("checkout gateway listening",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
	)

	log.Fatal(app.Listen(":" + cfg.Port))
}
