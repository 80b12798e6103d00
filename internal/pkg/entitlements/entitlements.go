package entitlements

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/mandi2mandi/marketguard/app/models"
	"github.com/mandi2mandi/marketguard/app/repository"
	"gorm.io/gorm"
)

type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

var (
	ErrInvalidGrant = errors.New("invalid grant")
	ErrNotFound     = errors.New("activation not found")
)

// CanViewSellerContacts reports whether the plan unlocks verified seller contacts.
func CanViewSellerContacts(plan Plan) bool {
	return plan == PlanPremium
}

// PlanFor derives the effective plan from a stored activation.
func PlanFor(a *models.SubscriptionActivation, now time.Time) Plan {
	if a != nil && a.IsActive(now) {
		return PlanPremium
	}
	return PlanFree
}

// Grant is an activation as received from the payment verifier.
type Grant struct {
	TransactionID    string
	GatewayPaymentID string
	Amount           string
	ExpiresAt        time.Time
}

// ApplyResult describes the outcome of Apply.
type ApplyResult struct {
	Duplicate  bool
	Activation *models.SubscriptionActivation
}

// Service applies activations exactly once per transaction id.
type Service struct {
	repo repository.ActivationRepository

	// serialises applies of the same transaction inside one process;
	// the unique index covers concurrent processes.
	mu sync.Mutex
}

func NewService(repo repository.ActivationRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Apply(g Grant) (*ApplyResult, error) {
	g.TransactionID = strings.TrimSpace(g.TransactionID)
	if g.TransactionID == "" {
		return nil, fmt.Errorf("%w: transaction id is required", ErrInvalidGrant)
	}
	if g.ExpiresAt.IsZero() {
		return nil, fmt.Errorf("%w: expiry is required", ErrInvalidGrant)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created, stored, err := s.repo.CreateIfNotExists(&models.SubscriptionActivation{
		TransactionID:      g.TransactionID,
		GatewayPaymentID:   g.GatewayPaymentID,
		Amount:             g.Amount,
		HasSubscription:    true,
		SubscriptionExpiry: g.ExpiresAt.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("apply activation %s: %w", g.TransactionID, err)
	}

	if created {
		log.Infof("[Entitlements] Activated subscription for txn=%s until %s", g.TransactionID, stored.SubscriptionExpiry.Format(time.RFC3339))
	} else {
		log.Infof("[Entitlements] Duplicate activation for txn=%s ignored", g.TransactionID)
	}
	return &ApplyResult{Duplicate: !created, Activation: stored}, nil
}

func (s *Service) Get(txnID string) (*models.SubscriptionActivation, error) {
	a, err := s.repo.GetByTransactionID(txnID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get activation %s: %w", txnID, err)
	}
	return a, nil
}
