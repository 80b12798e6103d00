package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testActivation() Activation {
	return Activation{
		TransactionID:    "TXN-1001",
		GatewayPaymentID: "403993715521",
		Amount:           "499.00",
		ExpiresAt:        time.Date(2026, 3, 31, 10, 0, 0, 0, time.UTC),
	}
}

func TestAccountClient_SendsAuthenticatedJSON(t *testing.T) {
	var got ActivationRequest
	var auth, contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		contentType = r.Header.Get("Content-Type")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := NewAccountClient(srv.URL, "service-token", time.Second)
	err := client.SendActivation(context.Background(), testActivation())

	require.NoError(t, err)
	assert.Equal(t, "Bearer service-token", auth)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, ActivationRequest{
		TransactionID:      "TXN-1001",
		GatewayPaymentID:   "403993715521",
		Amount:             "499.00",
		HasSubscription:    true,
		SubscriptionExpiry: "2026-03-31T10:00:00Z",
	}, got)
}

func TestAccountClient_Non2xxIsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
	}))
	defer srv.Close()

	client := NewAccountClient(srv.URL, "wrong", time.Second)
	err := client.SendActivation(context.Background(), testActivation())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrActivationRejected)
	assert.Contains(t, err.Error(), "status=401")
}

func TestAccountClient_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := NewAccountClient(srv.URL, "", 5*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := client.SendActivation(ctx, testActivation())
	assert.Error(t, err)
}

func TestAccountClient_MissingURL(t *testing.T) {
	client := NewAccountClient("", "", time.Second)
	assert.Error(t, client.SendActivation(context.Background(), testActivation()))
}

func TestActivationRequest_Validate(t *testing.T) {
	req := NewActivationRequest(testActivation())
	expiry, err := req.Validate()
	require.NoError(t, err)
	assert.Equal(t, testActivation().ExpiresAt, expiry)

	bad := req
	bad.Amount = "four hundred"
	_, err = bad.Validate()
	assert.Error(t, err)

	bad = req
	bad.TransactionID = ""
	_, err = bad.Validate()
	assert.Error(t, err)

	bad = req
	bad.SubscriptionExpiry = "next month"
	_, err = bad.Validate()
	assert.Error(t, err)
}
