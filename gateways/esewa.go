package gateways

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// SignedFieldNames is the exact, ordered list of fields covered by the
// eSewa form signature. The order is part of the wire contract.
const SignedFieldNames = "total_amount,transaction_uuid,product_code"

type Esewa struct {
	MerchantCode string
	SecretKey    string
	FrontendURL  string
	VerifyURL    string

	client *resty.Client
}

func NewEsewa() *Esewa {
	merchantCode := os.Getenv("ESEWA_MERCHANT_CODE")
	if merchantCode == "" {
		merchantCode = "EPAYTEST"
	}
	secretKey := os.Getenv("ESEWA_SECRET_KEY")
	if secretKey == "" {
		secretKey = "8gBm/:&EnhH.1/q"
	}
	verifyURL := os.Getenv("ESEWA_VERIFY_URL")
	if verifyURL == "" {
		verifyURL = "https://uat.esewa.com.np/epay/transrec"
	}
	return &Esewa{
		MerchantCode: merchantCode,
		SecretKey:    secretKey,
		FrontendURL:  os.Getenv("FRONTEND_URL"),
		VerifyURL:    verifyURL,
		client:       resty.New().SetTimeout(30 * time.Second),
	}
}

func (e *Esewa) Name() string {
	return "eSewa"
}

// Sign computes the eSewa form signature: base64 of HMAC-SHA256 over the
// canonical "key=value,key=value" string of the signed fields.
func Sign(secretKey, payload string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Initiate builds the self-submitting form payload for eSewa's checkout
// page. No network call happens here; eSewa only sees the customer's
// browser POST.
func (e *Esewa) Initiate(req InitiateRequest) (*InitiateResult, error) {
	transactionUUID := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString())
	amount := formatAmount(req.Amount)

	signaturePayload := fmt.Sprintf(
		"total_amount=%s,transaction_uuid=%s,product_code=%s",
		amount, transactionUUID, e.MerchantCode,
	)

	fields := map[string]any{
		"amount":                  req.Amount,
		"tax_amount":              0,
		"total_amount":            req.Amount,
		"transaction_uuid":        transactionUUID,
		"product_code":            e.MerchantCode,
		"product_service_charge":  0,
		"product_delivery_charge": 0,
		"success_url":             fmt.Sprintf("%s/payment-success?method=esewa&order_id=%d", e.FrontendURL, req.OrderID),
		"failure_url":             e.FrontendURL + "/payment-failed",
		"signed_field_names":      SignedFieldNames,
		"signature":               Sign(e.SecretKey, signaturePayload),
	}

	return &InitiateResult{
		Gateway:       e.Name(),
		CorrelationID: transactionUUID,
		FormFields:    fields,
	}, nil
}

// Verify re-submits the transaction details to eSewa's server-side
// verification endpoint. eSewa answers with an XML-ish body whose
// response_code contains "Success" for a settled transaction.
func (e *Esewa) Verify(req VerifyRequest) error {
	resp, err := e.client.R().
		SetFormData(map[string]string{
			"amt": req.Amount,
			"scd": e.MerchantCode,
			"rid": req.RefID,
			"pid": req.OrderID,
		}).
		Post(e.VerifyURL)
	if err != nil {
		return fmt.Errorf("esewa verification request: %w", err)
	}

	if !strings.Contains(string(resp.Body()), "Success") {
		return ErrVerificationFailed
	}
	return nil
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
