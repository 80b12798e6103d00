package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mandi2mandi/marketguard/app/controllers"
	"github.com/mandi2mandi/marketguard/app/models"
	"github.com/mandi2mandi/marketguard/internal/pkg/config"
	"github.com/mandi2mandi/marketguard/internal/pkg/contactguard"
	"github.com/mandi2mandi/marketguard/internal/pkg/entitlements"
	"github.com/mandi2mandi/marketguard/internal/pkg/inquiry"
	"github.com/mandi2mandi/marketguard/internal/pkg/payment"
)

type noopSender struct{}

func (noopSender) SendActivation(context.Context, payment.Activation) error { return nil }

type nopActivationRepo struct{}

func (nopActivationRepo) CreateIfNotExists(a *models.SubscriptionActivation) (bool, *models.SubscriptionActivation, error) {
	return true, a, nil
}

func (nopActivationRepo) GetByTransactionID(string) (*models.SubscriptionActivation, error) {
	return &models.SubscriptionActivation{TransactionID: "TXN-1", HasSubscription: true, SubscriptionExpiry: time.Now().Add(time.Hour)}, nil
}

type nopMessageRepo struct{}

func (nopMessageRepo) Create(*models.InquiryMessage) error { return nil }
func (nopMessageRepo) ListByInquiry(string, int, int) ([]models.InquiryMessage, error) {
	return []models.InquiryMessage{}, nil
}
func (nopMessageRepo) CountFlagged(string) (int64, error) { return 0, nil }

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := config.Payment{
		Salt:               "router-test-salt",
		MerchantKey:        "merchant-key",
		SuccessRedirect:    "/payment/success",
		FailureRedirect:    "/payment/failed",
		SubscriptionPeriod: time.Hour,
	}
	v, err := payment.NewVerifier(payment.VerifierConfig{Secret: cfg.Salt, SubscriptionPeriod: time.Hour}, noopSender{}, nil)
	require.NoError(t, err)

	detector := contactguard.NewCachedDetector(nil, nil, 0)
	app := fiber.New()
	InstallRouter(app, Dependencies{
		Payment:      controllers.NewPaymentController(v, cfg, "http://localhost:4000"),
		Account:      controllers.NewAccountController(entitlements.NewService(nopActivationRepo{})),
		Inquiry:      controllers.NewInquiryController(inquiry.NewPipeline(detector, nopMessageRepo{}, inquiry.BlockOnHigh), detector),
		ServiceToken: "svc-token",
	})
	return app
}

func TestRoutes_CallbackRedirects(t *testing.T) {
	req := httptest.NewRequest("POST", "/payment/success", strings.NewReader(url.Values{"txnid": {"x"}}.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)

	resp, err := newTestApp(t).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/payment/failed?reason=digest_mismatch", resp.Header.Get("Location"))
}

func TestRoutes_CallbackBurstAlwaysRedirects(t *testing.T) {
	app := newTestApp(t)

	cb := payment.Callback{
		TransactionID: "TXN-BURST",
		RawStatus:     "success",
		Amount:        "499.00",
		ProductInfo:   "premium",
		BuyerName:     "Asha",
		BuyerEmail:    "asha@example.com",
		MerchantKey:   "merchant-key",
	}
	form := url.Values{
		payment.FormStatus:      {cb.RawStatus},
		payment.FormTxnID:       {cb.TransactionID},
		payment.FormAmount:      {cb.Amount},
		payment.FormProductInfo: {cb.ProductInfo},
		payment.FormFirstName:   {cb.BuyerName},
		payment.FormEmail:       {cb.BuyerEmail},
		payment.FormKey:         {cb.MerchantKey},
		payment.FormHash:        {payment.ComputeResponseDigest("router-test-salt", cb)},
	}

	post := func(path, body string) *http.Response {
		req := httptest.NewRequest("POST", path, strings.NewReader(body))
		req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	for i := 0; i < 60; i++ {
		resp := post("/payment/success", url.Values{"txnid": {"forged"}}.Encode())
		require.Equal(t, fiber.StatusSeeOther, resp.StatusCode, "request %d", i)
		require.Equal(t, "/payment/failed?reason=digest_mismatch", resp.Header.Get("Location"))
	}
	for i := 0; i < 60; i++ {
		resp := post("/payment/failure", url.Values{"txnid": {"TXN-F"}}.Encode())
		require.Equal(t, fiber.StatusSeeOther, resp.StatusCode, "request %d", i)
	}

	resp := post("/payment/success", form.Encode())
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/payment/success?txnid=TXN-BURST", resp.Header.Get("Location"))
}

func TestRoutes_AccountRequiresServiceToken(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/account/subscription/TXN-1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/api/v1/account/subscription/TXN-1", nil)
	req.Header.Set("Authorization", "Bearer svc-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRoutes_ContactCheckIsPublic(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/v1/contact-check", strings.NewReader(`{"text":"hi"}`))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := newTestApp(t).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
