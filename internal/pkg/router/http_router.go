package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mandi2mandi/marketguard/internal/pkg/constants"
)

// HttpRouter mounts the browser-facing gateway callbacks. They are posted
// by the buyer's browser after checkout and always answer with a redirect,
// so no limiter sits in front of them.
type HttpRouter struct {
	deps Dependencies
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	app.Post(constants.PaymentSuccessRoute, h.deps.Payment.HandleSuccessCallback)
	app.Post(constants.PaymentFailureRoute, h.deps.Payment.HandleFailureCallback)
}

func NewHttpRouter(deps Dependencies) *HttpRouter {
	return &HttpRouter{deps: deps}
}
