package models

import "gorm.io/gorm"

const (
	PaymentStatusPending   = "Pending"
	PaymentStatusCompleted = "Completed"
	PaymentStatusFailed    = "Failed"
)

type Payment struct {
	gorm.Model
	OrderID         int    `json:"orderId"`
	PaymentType     string `json:"paymentType"`
	PaymentStatus   string `json:"paymentStatus"`
	TransactionUUID string `json:"transactionUuid"`
	PaymentIntentID string `json:"paymentIntentId"`
}
