package gateways

import "errors"

// CustomerInfo identifies the paying customer to the gateway.
type CustomerInfo struct {
	Name  string
	Email string
	Phone string
}

// InitiateRequest carries the checkout handoff details for a gateway.
type InitiateRequest struct {
	Amount        float64
	ProductName   string
	TransactionID string
	OrderID       int
	Customer      CustomerInfo
}

// InitiateResult is what the browser needs to reach the gateway's payment
// page. eSewa fills FormFields (self-submitting form POST), Khalti fills
// PaymentURL (hosted checkout). CorrelationID ties the later verification
// call back to the payment record created at initiation.
type InitiateResult struct {
	Gateway       string
	CorrelationID string
	PaymentURL    string
	FormFields    map[string]any
}

// VerifyRequest holds the gateway-specific correlation data returned to us
// after the customer completes (or abandons) payment.
type VerifyRequest struct {
	OrderID string
	Amount  string
	RefID   string
	Pidx    string
}

type Gateway interface {
	Name() string
	Initiate(req InitiateRequest) (*InitiateResult, error)
	Verify(req VerifyRequest) error
}

var (
	ErrUnsupportedMethod  = errors.New("invalid payment method")
	ErrVerificationFailed = errors.New("payment verification failed")
)

// GatewayError carries the gateway's own error body back to the caller.
type GatewayError struct {
	Gateway string
	Body    string
}

func (e *GatewayError) Error() string {
	return e.Gateway + " payment failed: " + e.Body
}

// ForMethod resolves the gateway selector sent by the client. The switch is
// deliberately closed: adding a gateway means adding a case here and an
// implementation next to the existing ones.
func ForMethod(method string) (Gateway, error) {
	switch method {
	case "esewa":
		return NewEsewa(), nil
	case "khalti":
		return NewKhalti(), nil
	default:
		return nil, ErrUnsupportedMethod
	}
}
