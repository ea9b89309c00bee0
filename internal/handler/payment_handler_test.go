package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bistro/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPaymentService is a mock implementation of PaymentService.
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutResponse), args.Error(1)
}

func (m *MockPaymentService) HandleNotification(ctx context.Context, n *model.PaymentNotification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func sampleCheckoutRequest() *model.CheckoutRequest {
	return &model.CheckoutRequest{
		Phone:          "+251911234567",
		Email:          "abebe@example.com",
		PaymentMethods: []string{"TELEBIRR"},
		Items: []model.CheckoutItem{
			{Name: "Margherita", Price: 9.00, Quantity: 2},
		},
	}
}

func TestPaymentHandler_Checkout(t *testing.T) {
	resp := &model.CheckoutResponse{
		CheckoutID:  "sess-1",
		CheckoutURL: "https://gateway.example.com/pay/sess-1",
	}

	mockService := new(MockPaymentService)
	mockService.On("Checkout", mock.Anything, mock.Anything).Return(resp, nil)

	h := NewPaymentHandler(mockService, "", zerolog.Nop())
	body, _ := json.Marshal(sampleCheckoutRequest())
	req := httptest.NewRequest(http.MethodPost, "/api/payments/checkout", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.Checkout(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.True(t, envelope.Success)

	data, ok := envelope.Data.(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "sess-1", data["checkoutId"])
	assert.Equal(t, "https://gateway.example.com/pay/sess-1", data["checkoutUrl"])
}

func TestPaymentHandler_CheckoutErrors(t *testing.T) {
	tests := []struct {
		name           string
		mockError      error
		expectedStatus int
	}{
		{"validation", model.NewDomainError(model.ErrCodeValidation, "Payer phone and email are required"), http.StatusBadRequest},
		{"gateway failure", model.ErrGatewayFailure, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockPaymentService)
			mockService.On("Checkout", mock.Anything, mock.Anything).Return(nil, tt.mockError)

			h := NewPaymentHandler(mockService, "", zerolog.Nop())
			body, _ := json.Marshal(sampleCheckoutRequest())
			req := httptest.NewRequest(http.MethodPost, "/api/payments/checkout", bytes.NewReader(body))
			w := httptest.NewRecorder()

			h.Checkout(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			envelope := decodeEnvelope(t, w)
			assert.False(t, envelope.Success)
		})
	}
}

func TestPaymentHandler_CheckoutInvalidBody(t *testing.T) {
	mockService := new(MockPaymentService)

	h := NewPaymentHandler(mockService, "", zerolog.Nop())
	req := httptest.NewRequest(http.MethodPost, "/api/payments/checkout", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()

	h.Checkout(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything)
}

func TestPaymentHandler_Notify(t *testing.T) {
	mockService := new(MockPaymentService)
	mockService.On("HandleNotification", mock.Anything, mock.MatchedBy(func(n *model.PaymentNotification) bool {
		return n.SessionID == "sess-1" && n.Status == model.PaymentStatusSuccess
	})).Return(nil)

	h := NewPaymentHandler(mockService, "", zerolog.Nop())
	body, _ := json.Marshal(model.PaymentNotification{
		ID:          "txn-1",
		SessionID:   "sess-1",
		Status:      model.PaymentStatusSuccess,
		TotalAmount: 18.00,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/payments/notify", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.Notify(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.True(t, envelope.Success)
	mockService.AssertExpectations(t)
}

// Processing failures after a parsed payload are still acknowledged so the
// gateway stops retrying; reprocessing is idempotent.
func TestPaymentHandler_NotifyAcksProcessingFailure(t *testing.T) {
	mockService := new(MockPaymentService)
	mockService.On("HandleNotification", mock.Anything, mock.Anything).
		Return(assert.AnError)

	h := NewPaymentHandler(mockService, "", zerolog.Nop())
	body, _ := json.Marshal(model.PaymentNotification{SessionID: "sess-1", Status: model.PaymentStatusSuccess})
	req := httptest.NewRequest(http.MethodPost, "/api/payments/notify", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.Notify(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPaymentHandler_NotifyRejectsMalformedPayload(t *testing.T) {
	mockService := new(MockPaymentService)

	h := NewPaymentHandler(mockService, "", zerolog.Nop())
	req := httptest.NewRequest(http.MethodPost, "/api/payments/notify", bytes.NewBufferString("not json"))
	w := httptest.NewRecorder()

	h.Notify(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "HandleNotification", mock.Anything, mock.Anything)
}

func TestPaymentHandler_NotifyValidationError(t *testing.T) {
	mockService := new(MockPaymentService)
	mockService.On("HandleNotification", mock.Anything, mock.Anything).
		Return(model.NewDomainError(model.ErrCodeValidation, "Notification session id is required"))

	h := NewPaymentHandler(mockService, "", zerolog.Nop())
	body, _ := json.Marshal(model.PaymentNotification{Status: model.PaymentStatusSuccess})
	req := httptest.NewRequest(http.MethodPost, "/api/payments/notify", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.Notify(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentHandler_NotifyWebhookSecret(t *testing.T) {
	tests := []struct {
		name           string
		secret         string
		expectedStatus int
		expectService  bool
	}{
		{"valid secret", "hook-secret", http.StatusOK, true},
		{"wrong secret", "nope", http.StatusUnauthorized, false},
		{"missing secret", "", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockPaymentService)
			if tt.expectService {
				mockService.On("HandleNotification", mock.Anything, mock.Anything).Return(nil)
			}

			h := NewPaymentHandler(mockService, "hook-secret", zerolog.Nop())
			body, _ := json.Marshal(model.PaymentNotification{SessionID: "sess-1", Status: model.PaymentStatusSuccess})
			req := httptest.NewRequest(http.MethodPost, "/api/payments/notify", bytes.NewReader(body))
			if tt.secret != "" {
				req.Header.Set("X-Webhook-Secret", tt.secret)
			}
			w := httptest.NewRecorder()

			h.Notify(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if !tt.expectService {
				mockService.AssertNotCalled(t, "HandleNotification", mock.Anything, mock.Anything)
			}
		})
	}
}
