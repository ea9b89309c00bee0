package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bistro/internal/config"
	"bistro/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest() CheckoutRequest {
	return CheckoutRequest{
		Phone:          "+1234567890",
		Email:          "jo@example.com",
		Nonce:          "nonce-1",
		PaymentMethods: []string{"CARD"},
		Items: []model.CheckoutItem{
			{Name: "Greek Salad", Price: 8.50, Quantity: 2},
			{Name: "Lemonade", Price: 3.50, Quantity: 1},
		},
	}
}

func TestClient_CreateCheckout(t *testing.T) {
	var captured checkoutPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkout/session", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-arifpay-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"sessionId":"sess-123","paymentUrl":"https://pay.example.com/sess-123"}}`))
	}))
	defer server.Close()

	gateway := NewClient(config.PaymentConfig{
		BaseURL:            server.URL,
		APIKey:             "test-key",
		MerchantID:         "merchant-1",
		NotifyURL:          "https://api.example.com/api/payments/notify",
		BeneficiaryAccount: "0001",
		BeneficiaryBank:    "TESTBANK",
	}, zerolog.Nop())

	session, err := gateway.CreateCheckout(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "sess-123", session.SessionID)
	assert.Equal(t, "https://pay.example.com/sess-123", session.PaymentURL)

	// Payload carries merchant routing and the computed beneficiary amount.
	assert.Equal(t, "merchant-1", captured.MerchantID)
	assert.Equal(t, "nonce-1", captured.Nonce)
	assert.Equal(t, "EN", captured.Lang)
	require.Len(t, captured.Beneficiaries, 1)
	assert.InDelta(t, 20.50, captured.Beneficiaries[0].Amount, 0.001)

	// Expiry is an absolute timestamp roughly one session window ahead.
	expire, err := time.Parse(time.RFC3339, captured.ExpireDate)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(sessionTTL), expire, time.Minute)
}

func TestClient_CreateCheckout_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "merchant suspended", http.StatusForbidden)
	}))
	defer server.Close()

	gateway := NewClient(config.PaymentConfig{
		BaseURL:    server.URL,
		APIKey:     "test-key",
		MerchantID: "merchant-1",
	}, zerolog.Nop())

	_, err := gateway.CreateCheckout(context.Background(), testRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrGatewayFailure))
	// The gateway body must not leak into the error surfaced to callers.
	assert.NotContains(t, err.Error(), "merchant suspended")
}

func TestClient_CreateCheckout_IncompleteResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	gateway := NewClient(config.PaymentConfig{
		BaseURL:    server.URL,
		APIKey:     "test-key",
		MerchantID: "merchant-1",
	}, zerolog.Nop())

	_, err := gateway.CreateCheckout(context.Background(), testRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrGatewayFailure))
}

func TestClient_CreateCheckout_Unreachable(t *testing.T) {
	gateway := NewClient(config.PaymentConfig{
		BaseURL:    "http://127.0.0.1:1",
		APIKey:     "test-key",
		MerchantID: "merchant-1",
	}, zerolog.Nop())

	_, err := gateway.CreateCheckout(context.Background(), testRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrGatewayFailure))
}
