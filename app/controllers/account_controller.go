package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/mandi2mandi/marketguard/internal/pkg/entitlements"
	"github.com/mandi2mandi/marketguard/internal/pkg/payment"
)

// AccountController is the account service side of activation delivery.
type AccountController struct {
	svc *entitlements.Service
	now func() time.Time
}

func NewAccountController(svc *entitlements.Service) *AccountController {
	return &AccountController{svc: svc, now: time.Now}
}

// HandleApplyActivation applies an activation. Repeated deliveries of the
// same transaction answer 200 with duplicate=true.
func (ac *AccountController) HandleApplyActivation(c *fiber.Ctx) error {
	var req payment.ActivationRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "Request body could not be parsed")
	}
	if !req.HasSubscription {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "hasSubscription must be true")
	}
	expiry, err := req.Validate()
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	res, err := ac.svc.Apply(entitlements.Grant{
		TransactionID:    req.TransactionID,
		GatewayPaymentID: req.GatewayPaymentID,
		Amount:           req.Amount,
		ExpiresAt:        expiry,
	})
	if err != nil {
		if errors.Is(err, entitlements.ErrInvalidGrant) {
			return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
		}
		log.Errorf("[Account] Failed to apply activation txn=%s: %v", req.TransactionID, err)
		return jsonError(c, fiber.StatusInternalServerError, "activation_persist_failed", "Activation could not be stored")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "duplicate": res.Duplicate})
}

// HandleGetActivation returns the stored activation for a transaction.
func (ac *AccountController) HandleGetActivation(c *fiber.Ctx) error {
	txnID := c.Params("txnid")
	a, err := ac.svc.Get(txnID)
	if err != nil {
		if errors.Is(err, entitlements.ErrNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "No activation for this transaction")
		}
		log.Errorf("[Account] Activation lookup failed txn=%s: %v", txnID, err)
		return jsonError(c, fiber.StatusInternalServerError, "lookup_failed", "Activation lookup failed")
	}

	plan := entitlements.PlanFor(a, ac.now())
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"transactionId":      a.TransactionID,
		"gatewayPaymentId":   a.GatewayPaymentID,
		"amount":             a.Amount,
		"hasSubscription":    a.HasSubscription,
		"subscriptionExpiry": a.SubscriptionExpiry.UTC().Format(time.RFC3339),
		"plan":               plan,
		"sellerContacts":     entitlements.CanViewSellerContacts(plan),
	})
}
