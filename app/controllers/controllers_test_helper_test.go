package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mandi2mandi/marketguard/app/models"
)

type memoryActivationRepo struct {
	mu   sync.Mutex
	rows map[string]models.SubscriptionActivation
}

func newMemoryActivationRepo() *memoryActivationRepo {
	return &memoryActivationRepo{rows: map[string]models.SubscriptionActivation{}}
}

func (m *memoryActivationRepo) CreateIfNotExists(a *models.SubscriptionActivation) (bool, *models.SubscriptionActivation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.rows[a.TransactionID]; ok {
		return false, &existing, nil
	}
	m.rows[a.TransactionID] = *a
	stored := *a
	return true, &stored, nil
}

func (m *memoryActivationRepo) GetByTransactionID(txnID string) (*models.SubscriptionActivation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[txnID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

type memoryMessageRepo struct {
	mu     sync.Mutex
	stored []models.InquiryMessage
}

func (m *memoryMessageRepo) Create(msg *models.InquiryMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = uint(len(m.stored) + 1)
	m.stored = append(m.stored, *msg)
	return nil
}

func (m *memoryMessageRepo) ListByInquiry(inquiryID string, offset, limit int) ([]models.InquiryMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.InquiryMessage{}
	for _, s := range m.stored {
		if s.InquiryID == inquiryID {
			out = append(out, s)
		}
	}
	if offset >= len(out) {
		return []models.InquiryMessage{}, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryMessageRepo) CountFlagged(inquiryID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range m.stored {
		if s.InquiryID == inquiryID && s.ContactWarning {
			n++
		}
	}
	return n, nil
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return strings.NewReader(string(data))
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
