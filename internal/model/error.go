package model

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON   = "INVALID_JSON"
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeConflict      = "CONFLICT"
	ErrCodeGatewayError  = "GATEWAY_ERROR"
	ErrCodeUnauthorised  = "UNAUTHORIZED"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrMenuItemNotFound = NewDomainError(ErrCodeNotFound, "Menu item not found")
	ErrOrderNotFound    = NewDomainError(ErrCodeNotFound, "Order not found")
	ErrMenuItemExists   = NewDomainError(ErrCodeConflict, "Menu item with this ID already exists")
	ErrEmptyOrder       = NewDomainError(ErrCodeValidation, "Cannot create an empty order")
	ErrInvalidStatus    = NewDomainError(ErrCodeValidation, "Invalid status value")
	ErrInvalidQuantity  = NewDomainError(ErrCodeValidation, "Quantity must be greater than zero")
	ErrTotalMismatch    = NewDomainError(ErrCodeValidation, "Order total does not match line items")
	ErrGatewayFailure   = NewDomainError(ErrCodeGatewayError, "Payment gateway request failed")
)
