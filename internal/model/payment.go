package model

// CheckoutRequest is the payload for initiating a payment checkout session.
// OrderID is optional; when present the resulting session is correlated back
// to the order so webhook notifications can complete it.
type CheckoutRequest struct {
	OrderID        string         `json:"orderId,omitempty"`
	Phone          string         `json:"phone"`
	Email          string         `json:"email"`
	Nonce          string         `json:"nonce,omitempty"`
	PaymentMethods []string       `json:"paymentMethods"`
	Items          []CheckoutItem `json:"items"`
	Lang           string         `json:"lang,omitempty"`
}

// CheckoutItem is a line item sent to the payment gateway.
type CheckoutItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// CheckoutResponse carries the gateway session back to the client.
type CheckoutResponse struct {
	CheckoutID  string `json:"checkoutId"`
	CheckoutURL string `json:"checkoutUrl"`
}

// PaymentNotification is the webhook payload delivered by the gateway.
// Delivery is at-least-once; duplicates carry the same sessionId and status.
type PaymentNotification struct {
	ID             string  `json:"id"`
	Status         string  `json:"status"`
	TotalAmount    float64 `json:"totalAmount"`
	SessionID      string  `json:"sessionId"`
	TransactionRef string  `json:"transactionRef,omitempty"`
}

// Payment notification status values reported by the gateway.
const (
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)
