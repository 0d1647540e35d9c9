package controllers

import (
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/Manizz11/6thsem-ecommerce/initializers"
	"github.com/Manizz11/6thsem-ecommerce/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	taxRate             = 0.18
	freeShippingMinimum = 50.0
	flatShippingFee     = 2.0
)

type orderItemInput struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type placeOrderInput struct {
	FullName     string           `json:"full_name"`
	State        string           `json:"state"`
	City         string           `json:"city"`
	Country      string           `json:"country"`
	Address      string           `json:"address"`
	Pincode      string           `json:"pincode"`
	Phone        string           `json:"phone"`
	OrderedItems []orderItemInput `json:"orderedItems"`
}

func (input *placeOrderInput) hasCompleteShippingDetails() bool {
	return input.FullName != "" && input.State != "" && input.City != "" &&
		input.Country != "" && input.Address != "" && input.Pincode != "" &&
		input.Phone != ""
}

// computeOrderTotal applies the 18% tax rate and the flat shipping fee
// (waived at and above the free-shipping minimum), rounding the grand total
// to the nearest whole currency unit. Rounding half-up here is a deliberate
// choice; the stored total is never recomputed.
func computeOrderTotal(subtotal float64) (shippingFee float64, total float64) {
	shippingFee = flatShippingFee
	if subtotal >= freeShippingMinimum {
		shippingFee = 0
	}
	total = math.Round(subtotal + subtotal*taxRate + shippingFee)
	return shippingFee, total
}

// PlaceOrder validates the cart handed over by the client, snapshots current
// catalog prices into line items and writes order, items and shipping info
// as one transaction. The order starts unpaid; payment happens separately.
func PlaceOrder(ctx *gin.Context) {
	var input placeOrderInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !input.hasCompleteShippingDetails() {
		sendErrorResponse(ctx, http.StatusBadRequest, "Please provide complete shipping details.")
		return
	}
	if len(input.OrderedItems) == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "No items in cart.")
		return
	}

	productIds := make([]int, 0, len(input.OrderedItems))
	for _, item := range input.OrderedItems {
		productIds = append(productIds, item.ProductID)
	}

	products, err := lookupProducts(productIds)
	if err != nil {
		log.Println("Product lookup error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch products")
		return
	}

	var subtotal float64
	orderItems := make([]models.OrderItem, 0, len(input.OrderedItems))

	for _, item := range input.OrderedItems {
		product, found := products[item.ProductID]
		if !found {
			sendErrorResponse(ctx, http.StatusNotFound, fmt.Sprintf("Product not found for ID: %d", item.ProductID))
			return
		}
		// Stock is checked against the catalog snapshot, not reserved.
		if item.Quantity > product.Stock {
			sendErrorResponse(ctx, http.StatusBadRequest,
				fmt.Sprintf("Only %d units available for %s", product.Stock, product.Name))
			return
		}

		subtotal += product.Price * float64(item.Quantity)

		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0].Url
		}
		orderItems = append(orderItems, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     product.Price,
			Title:     product.Name,
			Image:     image,
		})
	}

	shippingFee, total := computeOrderTotal(subtotal)

	tx := initializers.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	order := models.Order{
		BuyerID:       currentUserID(ctx),
		TotalPrice:    total,
		TaxPrice:      taxRate,
		ShippingPrice: shippingFee,
		OrderStatus:   "Processing",
	}
	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		log.Println("Order creation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create order")
		return
	}

	for i := range orderItems {
		orderItems[i].OrderID = int(order.ID)
		if err := tx.Create(&orderItems[i]).Error; err != nil {
			tx.Rollback()
			log.Println("Order item creation error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create order items")
			return
		}
	}

	shippingInfo := models.ShippingInfo{
		OrderID:  int(order.ID),
		FullName: input.FullName,
		State:    input.State,
		City:     input.City,
		Country:  input.Country,
		Address:  input.Address,
		Pincode:  input.Pincode,
		Phone:    input.Phone,
	}
	if err := tx.Create(&shippingInfo).Error; err != nil {
		tx.Rollback()
		log.Println("Shipping info creation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to save shipping details")
		return
	}

	if err := tx.Commit().Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to save order")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success":     true,
		"message":     "Order placed successfully.",
		"orderId":     order.ID,
		"total_price": total,
	})
}

// GetMyOrders returns the caller's paid orders, newest first.
func GetMyOrders(ctx *gin.Context) {
	var orders []models.Order
	result := initializers.DB.
		Preload("OrderItems").
		Preload("ShippingInfo").
		Where("buyer_id = ? AND paid_at IS NOT NULL", currentUserID(ctx)).
		Order("created_at desc").
		Find(&orders)
	if result.Error != nil {
		log.Println("Order fetch error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch orders.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success":  true,
		"myOrders": orders,
	})
}

func GetMyOrderById(ctx *gin.Context) {
	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	var order models.Order
	result := initializers.DB.
		Preload("OrderItems").
		Preload("ShippingInfo").
		Where("id = ? AND buyer_id = ?", orderId, currentUserID(ctx)).
		First(&order)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found.")
		} else {
			log.Println("Order fetch error:", result.Error)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch order.")
		}
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success": true,
		"order":   order,
	})
}

// GetOrders is the admin view: every paid order across all buyers.
func GetOrders(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))
	offset := (page - 1) * limit

	sortOrder := ctx.DefaultQuery("sort", "desc")
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	var orders []models.Order
	result := initializers.DB.
		Preload("OrderItems").
		Preload("ShippingInfo").
		Where("paid_at IS NOT NULL").
		Order("created_at " + sortOrder).
		Limit(limit).Offset(offset).
		Find(&orders)
	if result.Error != nil {
		log.Println("Order fetch error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch orders")
		return
	}

	var count int64
	initializers.DB.Model(&models.Order{}).Where("paid_at IS NOT NULL").Count(&count)

	previousPage := page - 1
	nextPage := page + 1
	totalPages := math.Ceil(float64(count) / float64(limit))

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success": true,
		"orders":  orders,
		"metadata": gin.H{
			"total":        count,
			"currentPage":  page,
			"limit":        limit,
			"hasPrevPage":  previousPage > 0,
			"hasNextPage":  int(totalPages) > page,
			"previousPage": previousPage,
			"nextPage":     nextPage,
		},
	})
}

func UpdateOrderStatus(ctx *gin.Context) {
	var orderStatusData struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&orderStatusData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Provide a valid status for order.")
		return
	}

	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	result := initializers.DB.Model(&models.Order{}).
		Where("id = ?", orderId).
		Update("order_status", orderStatusData.Status)
	if result.Error != nil {
		log.Println("Order status update error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update order status")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Invalid order ID.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success": true,
		"message": "Order status updated.",
	})
}

func DeleteOrder(ctx *gin.Context) {
	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse order id.")
		return
	}

	result := initializers.DB.Delete(&models.Order{}, orderId)
	if result.Error != nil {
		log.Println("Order delete error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to delete order.")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Invalid order ID.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "message": "Order deleted."})
}

// GetUndeliveredOrders feeds the admin dashboard counter.
func GetUndeliveredOrders(ctx *gin.Context) {
	var count int64
	result := initializers.DB.
		Model(&models.Order{}).
		Where("paid_at IS NOT NULL AND order_status != ?", "Delivered").
		Count(&count)
	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to count undelivered orders")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "undeliveredOrderCount": count})
}
