package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mandi2mandi/marketguard/app/controllers"
	"github.com/mandi2mandi/marketguard/internal/pkg/metrics/counter"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

// Dependencies are the wired controllers and shared infrastructure the
// routers mount.
type Dependencies struct {
	Payment        *controllers.PaymentController
	Account        *controllers.AccountController
	Inquiry        *controllers.InquiryController
	Decisions      *counter.DecisionCounter
	ServiceToken   string
	LimiterStorage fiber.Storage
}

func InstallRouter(app *fiber.App, deps Dependencies) {
	setup(app, NewHttpRouter(deps), NewApiRouter(deps))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
