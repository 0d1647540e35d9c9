package controllers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Manizz11/6thsem-ecommerce/gateways"
	"github.com/Manizz11/6thsem-ecommerce/initializers"
	"github.com/Manizz11/6thsem-ecommerce/models"
	"github.com/Manizz11/6thsem-ecommerce/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type initiatePaymentInput struct {
	Amount        float64 `json:"amount"`
	ProductName   string  `json:"productName"`
	TransactionID string  `json:"transactionId"`
	Method        string  `json:"method"`
	OrderID       int     `json:"orderId"`
}

// InitiatePayment hands the order off to the selected gateway and records a
// Pending payment row carrying the gateway's correlation id. The order row
// itself is untouched until verification.
func InitiatePayment(ctx *gin.Context) {
	var input initiatePaymentInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	if input.Amount <= 0 || input.ProductName == "" || input.TransactionID == "" || input.Method == "" {
		sendErrorResponse(ctx, http.StatusBadRequest, "Missing required fields")
		return
	}

	gateway, err := gateways.ForMethod(input.Method)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid payment method")
		return
	}

	result, err := gateway.Initiate(gateways.InitiateRequest{
		Amount:        input.Amount,
		ProductName:   input.ProductName,
		TransactionID: input.TransactionID,
		OrderID:       input.OrderID,
		Customer: gateways.CustomerInfo{
			Name:  claimString(ctx, "name"),
			Email: claimString(ctx, "email"),
			Phone: claimString(ctx, "phone"),
		},
	})
	if err != nil {
		log.Printf("%s initiation error: %v", gateway.Name(), err)
		var gatewayErr *gateways.GatewayError
		if errors.As(err, &gatewayErr) {
			sendErrorResponse(ctx, http.StatusBadRequest, gatewayErr.Error())
			return
		}
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to initiate payment")
		return
	}

	payment := models.Payment{
		OrderID:       input.OrderID,
		PaymentType:   result.Gateway,
		PaymentStatus: models.PaymentStatusPending,
	}
	switch result.Gateway {
	case "eSewa":
		payment.TransactionUUID = result.CorrelationID
	case "Khalti":
		payment.PaymentIntentID = result.CorrelationID
	}
	if err := initializers.DB.Create(&payment).Error; err != nil {
		log.Println("Payment record creation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to store payment record")
		return
	}

	if result.FormFields != nil {
		sendJSONResponse(ctx, http.StatusOK, gin.H{
			"success":     true,
			"esewaConfig": result.FormFields,
		})
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success":          true,
		"khaltiPaymentUrl": result.PaymentURL,
		"pidx":             result.CorrelationID,
	})
}

// VerifyEsewaPayment confirms an eSewa transaction against eSewa's own
// verification endpoint before flipping the payment and order to paid.
func VerifyEsewaPayment(ctx *gin.Context) {
	var input struct {
		Oid   string `json:"oid"`
		Amt   string `json:"amt"`
		RefID string `json:"refId"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil || input.Oid == "" || input.Amt == "" || input.RefID == "" {
		sendErrorResponse(ctx, http.StatusBadRequest, "Missing payment verification data")
		return
	}

	orderId, err := strconv.Atoi(input.Oid)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse order id.")
		return
	}

	gateway := gateways.NewEsewa()
	if alreadyCompleted(ctx, orderId, gateway.Name()) {
		return
	}

	if err := gateway.Verify(gateways.VerifyRequest{
		OrderID: input.Oid,
		Amount:  input.Amt,
		RefID:   input.RefID,
	}); err != nil {
		log.Println("eSewa verification error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, "eSewa payment verification failed")
		return
	}

	if err := markOrderPaid(orderId, gateway.Name()); err != nil {
		log.Println("Payment confirmation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update order status")
		return
	}
	sendOrderConfirmationEmail(orderId)

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success": true,
		"message": "eSewa payment verified successfully",
	})
}

// VerifyKhaltiPayment confirms a Khalti payment by pidx lookup and applies
// the same two-step paid update.
func VerifyKhaltiPayment(ctx *gin.Context) {
	var input struct {
		Pidx    string `json:"pidx"`
		OrderID int    `json:"orderId"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil || input.Pidx == "" || input.OrderID == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "Missing payment verification data")
		return
	}

	gateway := gateways.NewKhalti()
	if alreadyCompleted(ctx, input.OrderID, gateway.Name()) {
		return
	}

	if err := gateway.Verify(gateways.VerifyRequest{Pidx: input.Pidx}); err != nil {
		log.Println("Khalti verification error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, "Khalti payment verification failed")
		return
	}

	if err := markOrderPaid(input.OrderID, gateway.Name()); err != nil {
		log.Println("Payment confirmation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update order status")
		return
	}
	sendOrderConfirmationEmail(input.OrderID)

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success": true,
		"message": "Khalti payment verified successfully",
	})
}

// alreadyCompleted makes repeat verification calls idempotent: a payment
// that reached Completed answers success without touching the gateway
// again. The lookup is scoped to the verifying gateway's own row so a
// Pending attempt on the other gateway is ignored. Responds and returns
// true when the request is already settled.
func alreadyCompleted(ctx *gin.Context, orderId int, gatewayName string) bool {
	var payment models.Payment
	if err := initializers.DB.Where("order_id = ? AND payment_type = ?", orderId, gatewayName).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "No payment record found for this order.")
			return true
		}
		log.Println("Payment lookup error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch payment record")
		return true
	}

	if payment.PaymentStatus == models.PaymentStatusCompleted {
		sendJSONResponse(ctx, http.StatusOK, gin.H{
			"success": true,
			"message": "Payment already verified",
		})
		return true
	}
	return false
}

// markOrderPaid applies the payment-completed and order-paid updates as one
// transaction so neither can land without the other. Only the verifying
// gateway's payment row is flipped; an abandoned Pending attempt on the
// other gateway keeps its status.
func markOrderPaid(orderId int, gatewayName string) error {
	tx := initializers.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Model(&models.Payment{}).
		Where("order_id = ? AND payment_type = ?", orderId, gatewayName).
		Update("payment_status", models.PaymentStatusCompleted).Error; err != nil {
		tx.Rollback()
		return err
	}

	result := tx.Model(&models.Order{}).
		Where("id = ?", orderId).
		Update("paid_at", time.Now())
	if result.Error != nil {
		tx.Rollback()
		return result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return gorm.ErrRecordNotFound
	}

	return tx.Commit().Error
}

// sendOrderConfirmationEmail is best-effort: a mail failure never fails the
// verification response.
func sendOrderConfirmationEmail(orderId int) {
	var order models.Order
	if err := initializers.DB.First(&order, orderId).Error; err != nil {
		log.Println("Confirmation email order lookup error:", err)
		return
	}
	var user models.User
	if err := initializers.DB.First(&user, order.BuyerID).Error; err != nil {
		log.Println("Confirmation email user lookup error:", err)
		return
	}

	emailData := utils.EmailData{
		Name:    user.Fullname,
		Message: "We have received your payment and your order is now being processed.",
		OrderID: order.ID,
		Total:   order.TotalPrice,
		LogoURL: os.Getenv("FRONTEND_URL") + "/images/logo.png",
	}

	templatePath := filepath.Join("templates", "order_confirmation.html")
	if err := utils.SendEmail(user.Email, "Order Confirmation", emailData, templatePath); err != nil {
		log.Println("Error sending order confirmation email:", err)
	} else {
		log.Println("Order confirmation email sent to:", user.Email)
	}
}
