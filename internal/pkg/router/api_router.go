package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/mandi2mandi/marketguard/internal/pkg/middleware"
	"github.com/mandi2mandi/marketguard/internal/pkg/ratelimit"
)

type ApiRouter struct {
	deps Dependencies
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", ratelimit.New(h.deps.LimiterStorage, "api", 120, time.Minute))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1")

	v1.Post("/payment/initiate", h.deps.Payment.HandleInitiatePayment)

	account := v1.Group("/account", middleware.ServiceTokenMiddleware(h.deps.ServiceToken))
	account.Post("/subscription", h.deps.Account.HandleApplyActivation)
	account.Get("/subscription/:txnid", h.deps.Account.HandleGetActivation)

	v1.Post("/inquiries/:id/messages", h.deps.Inquiry.HandlePostMessage)
	v1.Get("/inquiries/:id/messages", h.deps.Inquiry.HandleListMessages)
	v1.Post("/contact-check", h.deps.Inquiry.HandleContactCheck)

	if h.deps.Decisions != nil {
		v1.Get("/contact-check/stats", middleware.ServiceTokenMiddleware(h.deps.ServiceToken), func(c *fiber.Ctx) error {
			snap, err := h.deps.Decisions.Snapshot(c.UserContext())
			if err != nil {
				log.Errorf("[API] Decision counters unavailable: %v", err)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "counters_unavailable", "message": "Counters could not be read"})
			}
			return c.Status(fiber.StatusOK).JSON(fiber.Map{"counters": snap})
		})
	}
}

func NewApiRouter(deps Dependencies) *ApiRouter {
	return &ApiRouter{deps: deps}
}
