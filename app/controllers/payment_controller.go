package controllers

import (
	"context"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/mandi2mandi/marketguard/internal/pkg/config"
	"github.com/mandi2mandi/marketguard/internal/pkg/constants"
	"github.com/mandi2mandi/marketguard/internal/pkg/payment"
)

// CallbackVerifier is the part of *payment.Verifier the webhooks use.
type CallbackVerifier interface {
	Verify(ctx context.Context, cb payment.Callback) payment.Result
	RecordFailure(cb payment.Callback)
}

// PaymentController handles gateway callbacks and checkout initiation.
type PaymentController struct {
	verifier CallbackVerifier
	cfg      config.Payment
	baseURL  string
	newTxnID func() string
}

// NewPaymentController creates a payment controller. baseURL is the public
// origin the gateway posts callbacks to.
func NewPaymentController(verifier CallbackVerifier, cfg config.Payment, baseURL string) *PaymentController {
	return &PaymentController{
		verifier: verifier,
		cfg:      cfg,
		baseURL:  strings.TrimRight(baseURL, "/"),
		newTxnID: func() string { return uuid.New().String() },
	}
}

// HandleSuccessCallback verifies a success callback. The gateway only ever
// gets a redirect; the reason is appended for the failure page.
func (pc *PaymentController) HandleSuccessCallback(c *fiber.Ctx) error {
	cb := payment.ParseCallback(formValues(c))
	res := pc.verifier.Verify(c.UserContext(), cb)

	if res.Accepted {
		return c.Redirect(withQuery(pc.cfg.SuccessRedirect, "txnid", url.QueryEscape(cb.TransactionID)), fiber.StatusSeeOther)
	}
	return c.Redirect(withQuery(pc.cfg.FailureRedirect, "reason", string(res.Reason)), fiber.StatusSeeOther)
}

// HandleFailureCallback logs a failure callback and redirects.
func (pc *PaymentController) HandleFailureCallback(c *fiber.Ctx) error {
	pc.verifier.RecordFailure(payment.ParseCallback(formValues(c)))
	return c.Redirect(withQuery(pc.cfg.FailureRedirect, "reason", string(payment.ReasonPaymentNotSuccessful)), fiber.StatusSeeOther)
}

type initiatePaymentRequest struct {
	Amount      string `json:"amount" validate:"required,numeric"`
	ProductInfo string `json:"productinfo" validate:"required,max=100"`
	FirstName   string `json:"firstname" validate:"required,max=60"`
	Email       string `json:"email" validate:"required,email"`
}

// HandleInitiatePayment issues a transaction id and signs the hosted
// checkout form fields.
func (pc *PaymentController) HandleInitiatePayment(c *fiber.Ctx) error {
	var req initiatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "Request body could not be parsed")
	}
	if err := validate.Struct(req); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	txnID := pc.newTxnID()
	hash := payment.ComputeRequestDigest(pc.cfg.Salt, pc.cfg.MerchantKey, payment.PaymentRequest{
		TxnID:       txnID,
		Amount:      req.Amount,
		ProductInfo: req.ProductInfo,
		FirstName:   req.FirstName,
		Email:       req.Email,
	})
	log.Infof("[Payment] Initiated txn=%s amount=%s", txnID, req.Amount)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"txnid":       txnID,
		"hash":        hash,
		"key":         pc.cfg.MerchantKey,
		"amount":      req.Amount,
		"productinfo": req.ProductInfo,
		"firstname":   req.FirstName,
		"email":       req.Email,
		"gatewayUrl":  pc.cfg.GatewayURL,
		"surl":        pc.baseURL + constants.PaymentSuccessRoute,
		"furl":        pc.baseURL + constants.PaymentFailureRoute,
	})
}
