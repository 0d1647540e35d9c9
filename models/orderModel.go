package models

import (
	"time"

	"gorm.io/gorm"
)

type Order struct {
	gorm.Model
	BuyerID       int           `json:"buyerId"`
	TotalPrice    float64       `json:"totalPrice"`
	TaxPrice      float64       `json:"taxPrice"`
	ShippingPrice float64       `json:"shippingPrice"`
	OrderStatus   string        `json:"orderStatus"`
	PaidAt        *time.Time    `json:"paidAt"`
	OrderItems    []OrderItem   `json:"orderItems" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingInfo  *ShippingInfo `json:"shippingInfo" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

type OrderItem struct {
	gorm.Model
	OrderID   int     `json:"orderId"`
	ProductID int     `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Title     string  `json:"title"`
	Image     string  `json:"image"`
}

type ShippingInfo struct {
	gorm.Model
	OrderID  int    `json:"orderId"`
	FullName string `json:"fullName"`
	State    string `json:"state"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Address  string `json:"address"`
	Pincode  string `json:"pincode"`
	Phone    string `json:"phone"`
}
