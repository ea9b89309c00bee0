// Package payment is the outbound boundary to the external checkout gateway.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"bistro/internal/config"
	"bistro/internal/model"

	"github.com/rs/zerolog"
)

// sessionTTL is the advisory expiry window sent with every checkout session.
// The gateway, not this service, enforces it.
const sessionTTL = 20 * time.Minute

// CheckoutRequest carries everything the gateway needs for one payment
// attempt. Nonce must be unique per attempt.
type CheckoutRequest struct {
	Phone          string
	Email          string
	Nonce          string
	PaymentMethods []string
	Items          []model.CheckoutItem
	Lang           string
}

// CheckoutSession is the gateway's representation of one payment attempt.
type CheckoutSession struct {
	SessionID  string
	PaymentURL string
}

// Gateway initiates checkout sessions with the external payment provider.
type Gateway interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}

// checkoutPayload is the wire format of the gateway's session endpoint.
type checkoutPayload struct {
	MerchantID     string               `json:"merchant_id"`
	CancelURL      string               `json:"cancelUrl"`
	SuccessURL     string               `json:"successUrl"`
	ErrorURL       string               `json:"errorUrl"`
	NotifyURL      string               `json:"notifyUrl"`
	Phone          string               `json:"phone"`
	Email          string               `json:"email"`
	Nonce          string               `json:"nonce"`
	PaymentMethods []string             `json:"paymentMethods"`
	ExpireDate     string               `json:"expireDate"`
	Items          []model.CheckoutItem `json:"items"`
	Lang           string               `json:"lang"`
	Beneficiaries  []beneficiary        `json:"beneficiaries"`
}

type beneficiary struct {
	AccountNumber string  `json:"accountNumber"`
	Bank          string  `json:"bank"`
	Amount        float64 `json:"amount"`
}

type checkoutResult struct {
	Data struct {
		SessionID  string `json:"sessionId"`
		PaymentURL string `json:"paymentUrl"`
	} `json:"data"`
}

// client implements Gateway over HTTPS.
type client struct {
	cfg        config.PaymentConfig
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a gateway client from configuration.
func NewClient(cfg config.PaymentConfig, logger zerolog.Logger) Gateway {
	return &client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.With().Str("component", "payment-gateway").Logger(),
	}
}

// CreateCheckout posts a checkout session request to the gateway and returns
// the session id and redirect URL. Non-success responses surface as a
// gateway error; the response body is logged, never exposed.
func (c *client) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	total := 0.0
	for _, item := range req.Items {
		total += item.Price * float64(item.Quantity)
	}

	lang := req.Lang
	if lang == "" {
		lang = "EN"
	}

	payload := checkoutPayload{
		MerchantID:     c.cfg.MerchantID,
		CancelURL:      c.cfg.CancelURL,
		SuccessURL:     c.cfg.SuccessURL,
		ErrorURL:       c.cfg.ErrorURL,
		NotifyURL:      c.cfg.NotifyURL,
		Phone:          req.Phone,
		Email:          req.Email,
		Nonce:          req.Nonce,
		PaymentMethods: req.PaymentMethods,
		ExpireDate:     time.Now().Add(sessionTTL).UTC().Format(time.RFC3339),
		Items:          req.Items,
		Lang:           lang,
		Beneficiaries: []beneficiary{
			{
				AccountNumber: c.cfg.BeneficiaryAccount,
				Bank:          c.cfg.BeneficiaryBank,
				Amount:        total,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode checkout payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/checkout/session", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build checkout request: %w", err)
	}
	httpReq.Header.Set("x-arifpay-key", c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Info().
		Str("merchant_id", c.cfg.MerchantID).
		Float64("total", total).
		Int("items_count", len(req.Items)).
		Msg("sending checkout request to payment gateway")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error().Err(err).Msg("payment gateway request failed")
		return nil, fmt.Errorf("payment gateway request failed: %w", model.ErrGatewayFailure)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("body", string(respBody)).
			Msg("payment gateway returned non-success status")
		return nil, fmt.Errorf("payment gateway returned status %d: %w", resp.StatusCode, model.ErrGatewayFailure)
	}

	var result checkoutResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.logger.Error().Err(err).Msg("failed to decode payment gateway response")
		return nil, fmt.Errorf("failed to decode gateway response: %w", model.ErrGatewayFailure)
	}

	if result.Data.SessionID == "" || result.Data.PaymentURL == "" {
		c.logger.Error().Msg("payment gateway response missing session id or payment URL")
		return nil, fmt.Errorf("incomplete gateway response: %w", model.ErrGatewayFailure)
	}

	c.logger.Info().
		Str("session_id", result.Data.SessionID).
		Msg("checkout session created")

	return &CheckoutSession{
		SessionID:  result.Data.SessionID,
		PaymentURL: result.Data.PaymentURL,
	}, nil
}
