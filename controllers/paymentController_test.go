package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paymentRouter() *gin.Engine {
	router := gin.New()
	router.POST("/payment/initiate", withClaims(buyerClaims(7)), InitiatePayment)
	router.POST("/payment/esewa/verify", VerifyEsewaPayment)
	router.POST("/payment/khalti/verify", VerifyKhaltiPayment)
	return router
}

func pendingPaymentRows(orderId int, paymentType string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "order_id", "payment_type", "payment_status", "transaction_uuid", "payment_intent_id"}).
		AddRow(1, orderId, paymentType, "Pending", "txn-uuid", "pidx_abc123")
}

func TestInitiatePaymentRejectsUnknownMethod(t *testing.T) {
	mock := setupMockDB(t)

	body := `{"amount":236,"productName":"Order #42","transactionId":"TXN_1","method":"paypal","orderId":42}`
	recorder := performJSONRequest(paymentRouter(), http.MethodPost, "/payment/initiate", body)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Invalid payment method")
	assertExpectationsMet(t, mock)
}

func TestInitiatePaymentRejectsMissingFields(t *testing.T) {
	mock := setupMockDB(t)

	body := `{"amount":236,"method":"esewa","orderId":42}`
	recorder := performJSONRequest(paymentRouter(), http.MethodPost, "/payment/initiate", body)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Missing required fields")
	assertExpectationsMet(t, mock)
}

func TestInitiateEsewaPaymentCreatesPendingRecord(t *testing.T) {
	t.Setenv("FRONTEND_URL", "http://localhost:5173")
	mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `payments`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	body := `{"amount":236,"productName":"Order #42","transactionId":"TXN_1","method":"esewa","orderId":42}`
	recorder := performJSONRequest(paymentRouter(), http.MethodPost, "/payment/initiate", body)

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var response struct {
		Success     bool           `json:"success"`
		EsewaConfig map[string]any `json:"esewaConfig"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, "total_amount,transaction_uuid,product_code", response.EsewaConfig["signed_field_names"])
	assert.NotEmpty(t, response.EsewaConfig["signature"])
	assert.NotEmpty(t, response.EsewaConfig["transaction_uuid"])
	assertExpectationsMet(t, mock)
}

func TestInitiateKhaltiPaymentStoresPidx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"pidx":        "pidx_abc123",
			"payment_url": "https://test-pay.khalti.com/?pidx=pidx_abc123",
		})
	}))
	defer server.Close()
	t.Setenv("KHALTI_BASE_URL", server.URL)
	t.Setenv("KHALTI_SECRET_KEY", "test-secret")
	t.Setenv("FRONTEND_URL", "http://localhost:5173")

	mock := setupMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `payments`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	body := `{"amount":236,"productName":"Order #42","transactionId":"TXN_1","method":"khalti","orderId":42}`
	recorder := performJSONRequest(paymentRouter(), http.MethodPost, "/payment/initiate", body)

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.Contains(t, recorder.Body.String(), "pidx_abc123")
	assert.Contains(t, recorder.Body.String(), "test-pay.khalti.com")
	assertExpectationsMet(t, mock)
}

func TestInitiateKhaltiPaymentSurfacesGatewayErrorWithoutRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Invalid token."}`))
	}))
	defer server.Close()
	t.Setenv("KHALTI_BASE_URL", server.URL)
	t.Setenv("FRONTEND_URL", "http://localhost:5173")

	mock := setupMockDB(t)

	body := `{"amount":236,"productName":"Order #42","transactionId":"TXN_1","method":"khalti","orderId":42}`
	recorder := performJSONRequest(paymentRouter(), http.MethodPost, "/payment/initiate", body)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Khalti payment failed")
	// The gateway rejected the initiation, so no payment row was written.
	assertExpectationsMet(t, mock)
}

func TestVerifyEsewaPaymentFailureLeavesPaymentPending(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<response><response_code>Failure</response_code></response>")
	}))
	defer server.Close()
	t.Setenv("ESEWA_VERIFY_URL", server.URL)

	mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `payments` WHERE (order_id = ? AND payment_type = ?)")).
		WillReturnRows(pendingPaymentRows(42, "eSewa"))

	body := `{"oid":"42","amt":"236","refId":"REF123"}`
	recorder := performJSONRequest(paymentRouter(), http.MethodPost, "/payment/esewa/verify", body)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "eSewa payment verification failed")
	// No transaction was opened: payment stays Pending, paid_at stays null.
	assertExpectationsMet(t, mock)
}

func TestVerifyEsewaPaymentSuccessMarksPaymentAndOrderTogether(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<response><response_code>Success</response_code></response>")
	}))
	defer server.Close()
	t.Setenv("ESEWA_VERIFY_URL", server.URL)

	mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `payments` WHERE (order_id = ? AND payment_type = ?)")).
		WillReturnRows(pendingPaymentRows(42, "eSewa"))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `payments`")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `orders`")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body := `{"oid":"42","amt":"236","refId":"REF123"}`
	recorder := performJSONRequest(paymentRouter(), http.MethodPost, "/payment/esewa/verify", body)

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.Contains(t, recorder.Body.String(), "eSewa payment verified successfully")
	assertExpectationsMet(t, mock)
}

func TestVerifyKhaltiPaymentSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "Completed"})
	}))
	defer server.Close()
	t.Setenv("KHALTI_BASE_URL", server.URL)

	mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `payments` WHERE (order_id = ? AND payment_type = ?)")).
		WillReturnRows(pendingPaymentRows(42, "Khalti"))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `payments`")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `orders`")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body := `{"pidx":"pidx_abc123","orderId":42}`
	recorder := performJSONRequest(paymentRouter(), http.MethodPost, "/payment/khalti/verify", body)

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.Contains(t, recorder.Body.String(), "Khalti payment verified successfully")
	assertExpectationsMet(t, mock)
}

func TestVerifyCompletedPaymentIsIdempotent(t *testing.T) {
	// Unreachable base URL: an already-Completed payment must not trigger
	// another gateway lookup.
	t.Setenv("KHALTI_BASE_URL", "http://127.0.0.1:1")

	mock := setupMockDB(t)
	completed := sqlmock.NewRows([]string{"id", "order_id", "payment_type", "payment_status", "transaction_uuid", "payment_intent_id"}).
		AddRow(1, 42, "Khalti", "Completed", "", "pidx_abc123")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `payments` WHERE (order_id = ? AND payment_type = ?)")).
		WillReturnRows(completed)

	body := `{"pidx":"pidx_abc123","orderId":42}`
	recorder := performJSONRequest(paymentRouter(), http.MethodPost, "/payment/khalti/verify", body)

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.Contains(t, recorder.Body.String(), "Payment already verified")
	assertExpectationsMet(t, mock)
}

func TestVerifySuccessFlipsOnlyVerifyingGatewayRow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "Completed"})
	}))
	defer server.Close()
	t.Setenv("KHALTI_BASE_URL", server.URL)

	mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `payments` WHERE (order_id = ? AND payment_type = ?)")).
		WillReturnRows(pendingPaymentRows(42, "Khalti"))
	mock.ExpectBegin()
	// The update carries the gateway scope, so a Pending row left by an
	// abandoned attempt on the other gateway stays Pending.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `payments`")).
		WithArgs("Completed", sqlmock.AnyArg(), 42, "Khalti").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `orders`")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body := `{"pidx":"pidx_abc123","orderId":42}`
	recorder := performJSONRequest(paymentRouter(), http.MethodPost, "/payment/khalti/verify", body)

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assertExpectationsMet(t, mock)
}

func TestVerifyWithoutPaymentRecordIsRejected(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `payments` WHERE (order_id = ? AND payment_type = ?)")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	body := `{"pidx":"pidx_abc123","orderId":42}`
	recorder := performJSONRequest(paymentRouter(), http.MethodPost, "/payment/khalti/verify", body)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "No payment record found")
	assertExpectationsMet(t, mock)
}
