package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/mandi2mandi/marketguard/app/controllers"
	"github.com/mandi2mandi/marketguard/app/repository"
	"github.com/mandi2mandi/marketguard/internal/pkg/cache"
	"github.com/mandi2mandi/marketguard/internal/pkg/config"
	"github.com/mandi2mandi/marketguard/internal/pkg/contactguard"
	"github.com/mandi2mandi/marketguard/internal/pkg/database"
	"github.com/mandi2mandi/marketguard/internal/pkg/entitlements"
	"github.com/mandi2mandi/marketguard/internal/pkg/inquiry"
	"github.com/mandi2mandi/marketguard/internal/pkg/metrics/counter"
	"github.com/mandi2mandi/marketguard/internal/pkg/payment"
	"github.com/mandi2mandi/marketguard/internal/pkg/publisher"
	"github.com/mandi2mandi/marketguard/internal/pkg/ratelimit"
	"github.com/mandi2mandi/marketguard/internal/pkg/router"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("[Main] Invalid configuration: %v", err)
	}

	app, cleanup, err := NewApplication(cfg)
	if err != nil {
		log.Fatalf("[Main] Startup failed: %v", err)
	}
	defer cleanup()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("[Main] Shutting down")
		_ = app.Shutdown()
	}()

	if err := app.Listen(cfg.App.ListenAddr()); err != nil {
		log.Errorf("[Main] Server stopped: %v", err)
	}
}

// NewApplication wires storage, the payment verifier and the contact guard
// into a fiber app. cleanup releases the broker and cache connections.
func NewApplication(cfg *config.Config) (*fiber.App, func(), error) {
	rdb := cache.SetupCache(cfg.Cache)
	db, err := database.SetupDatabase(cfg.Database, cfg.App.IsDev())
	if err != nil {
		return nil, nil, err
	}
	repos := repository.NewFactory(db)

	var alerter payment.ReconciliationAlerter
	var kafkaPublisher *publisher.KafkaPublisher
	if brokers := cfg.Kafka.BrokerList(); len(brokers) > 0 {
		kafkaPublisher = publisher.NewKafkaPublisher(brokers, []string{cfg.Kafka.ReconcileTopic}, cfg.Kafka.GetRetryConfig())
		alerter = payment.NewReconciliationPublisher(kafkaPublisher, cfg.Kafka.ReconcileTopic)
	} else {
		log.Warn("[Main] KAFKA_BROKERS not set, activation failures are only logged")
	}

	if cfg.Account.Token == "" {
		log.Warn("[Main] ACCOUNT_SERVICE_TOKEN not set, activations will be rejected by the account endpoint")
	}
	sender := payment.NewRetryingSender(
		payment.NewAccountClient(cfg.Account.URL, cfg.Account.Token, cfg.Account.Timeout),
		cfg.Account.GetRetryConfig(),
	)
	verifier, err := payment.NewVerifier(payment.VerifierConfig{
		Secret:             cfg.Payment.Salt,
		SubscriptionPeriod: cfg.Payment.SubscriptionPeriod,
		ActivationTimeout:  cfg.Account.Timeout,
	}, sender, alerter)
	if err != nil {
		return nil, nil, err
	}

	detector := contactguard.NewCachedDetector(nil, contactguard.RedisStore{Client: rdb}, cfg.ContactGuard.VerdictCacheTTL)
	decisions := counter.NewDecisionCounter(rdb)
	pipeline := inquiry.NewPipeline(detector, repos.GetInquiryMessageRepository(), inquiry.BlockOnHigh).
		WithRecorder(decisions)

	app := fiber.New(fiber.Config{
		BodyLimit: 1 << 20,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	if cfg.App.MetricsPassword != "" {
		app.Get("/metrics", basicauth.New(basicauth.Config{
			Users: map[string]string{
				cfg.App.MetricsUser: cfg.App.MetricsPassword,
			},
		}), monitor.New())
	}

	// SWAGGER / OPENAPI
	if specPath := findOpenAPISpec(); specPath != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/docs/api/",
			FilePath: specPath,
			Path:     "v1",
		}))
	}

	baseURL := strings.TrimSpace(cfg.App.PublicDomain)
	if baseURL == "" {
		baseURL = "http://" + cfg.App.ListenAddr()
	}

	// ROUTER
	router.InstallRouter(app, router.Dependencies{
		Payment:        controllers.NewPaymentController(verifier, cfg.Payment, baseURL),
		Account:        controllers.NewAccountController(entitlements.NewService(repos.GetActivationRepository())),
		Inquiry:        controllers.NewInquiryController(pipeline, detector),
		Decisions:      decisions,
		ServiceToken:   cfg.Account.Token,
		LimiterStorage: ratelimit.NewStorage(cfg.Cache),
	})

	cleanup := func() {
		if kafkaPublisher != nil {
			if err := kafkaPublisher.Close(); err != nil {
				log.Warnf("[Main] Closing kafka publisher: %v", err)
			}
		}
		_ = cache.Close()
	}
	return app, cleanup, nil
}

func findOpenAPISpec() string {
	for _, base := range []string{"./", "../../", "../../../"} {
		path := base + "public/docs/v1/openapi.yml"
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
