package gateways

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

type Khalti struct {
	SecretKey   string
	BaseURL     string
	FrontendURL string

	client *resty.Client
}

func NewKhalti() *Khalti {
	baseURL := os.Getenv("KHALTI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://a.khalti.com"
	}
	return &Khalti{
		SecretKey:   os.Getenv("KHALTI_SECRET_KEY"),
		BaseURL:     baseURL,
		FrontendURL: os.Getenv("FRONTEND_URL"),
		client:      resty.New().SetTimeout(30 * time.Second),
	}
}

func (k *Khalti) Name() string {
	return "Khalti"
}

// Initiate registers the payment with Khalti and returns the hosted
// checkout URL. Khalti wants the amount in paisa.
func (k *Khalti) Initiate(req InitiateRequest) (*InitiateResult, error) {
	customer := req.Customer
	if customer.Name == "" {
		customer.Name = "Customer"
	}
	if customer.Email == "" {
		customer.Email = "customer@example.com"
	}
	if customer.Phone == "" {
		customer.Phone = "9800000000"
	}

	payload := map[string]any{
		"return_url":          fmt.Sprintf("%s/payment-success?method=khalti&order_id=%d", k.FrontendURL, req.OrderID),
		"website_url":         k.FrontendURL,
		"amount":              int64(math.Round(req.Amount * 100)),
		"purchase_order_id":   req.TransactionID,
		"purchase_order_name": req.ProductName,
		"customer_info": map[string]string{
			"name":  customer.Name,
			"email": customer.Email,
			"phone": customer.Phone,
		},
	}

	var result struct {
		Pidx       string `json:"pidx"`
		PaymentURL string `json:"payment_url"`
	}

	resp, err := k.client.R().
		SetHeader("Authorization", "Key "+k.SecretKey).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		SetResult(&result).
		Post(k.BaseURL + "/api/v2/epayment/initiate/")
	if err != nil {
		return nil, fmt.Errorf("khalti initiation request: %w", err)
	}
	if resp.IsError() {
		return nil, &GatewayError{Gateway: k.Name(), Body: string(resp.Body())}
	}

	return &InitiateResult{
		Gateway:       k.Name(),
		CorrelationID: result.Pidx,
		PaymentURL:    result.PaymentURL,
	}, nil
}

// Verify looks the payment up by pidx; anything other than a "Completed"
// status means the money has not settled.
func (k *Khalti) Verify(req VerifyRequest) error {
	var result struct {
		Status string `json:"status"`
	}

	resp, err := k.client.R().
		SetHeader("Authorization", "Key "+k.SecretKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"pidx": req.Pidx}).
		SetResult(&result).
		Post(k.BaseURL + "/api/v2/epayment/lookup/")
	if err != nil {
		return fmt.Errorf("khalti lookup request: %w", err)
	}
	if resp.IsError() {
		return &GatewayError{Gateway: k.Name(), Body: string(resp.Body())}
	}

	if result.Status != "Completed" {
		return ErrVerificationFailed
	}
	return nil
}
