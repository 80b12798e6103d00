package constants

// Gateway callback routes. The gateway is configured with these as surl/furl.
const (
	PaymentSuccessRoute = "/payment/success"
	PaymentFailureRoute = "/payment/failure"
)

// Browser landing pages the callbacks redirect to.
const (
	PaymentSucceededPage = "/payment/success"
	PaymentFailedPage    = "/payment/failed"
)
