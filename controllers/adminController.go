package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Manizz11/6thsem-ecommerce/initializers"
	"github.com/Manizz11/6thsem-ecommerce/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const lowStockThreshold = 5

// DashboardStats aggregates the figures the admin dashboard renders:
// revenue, user count, per-status order counts, best sellers and products
// running low on stock. Only paid orders count towards revenue.
func DashboardStats(ctx *gin.Context) {
	var totalRevenue float64
	err := initializers.DB.
		Model(&models.Order{}).
		Where("paid_at IS NOT NULL").
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&totalRevenue).Error
	if err != nil {
		log.Println("Revenue query error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch dashboard stats")
		return
	}

	var todayRevenue float64
	err = initializers.DB.
		Model(&models.Order{}).
		Where("DATE(created_at) = ? AND paid_at IS NOT NULL", time.Now().Format("2006-01-02")).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&todayRevenue).Error
	if err != nil {
		log.Println("Revenue query error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch dashboard stats")
		return
	}

	var totalUsers int64
	err = initializers.DB.
		Model(&models.User{}).
		Where("role = ?", "User").
		Count(&totalUsers).Error
	if err != nil {
		log.Println("User count error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch dashboard stats")
		return
	}

	var statusRows []struct {
		OrderStatus string `json:"orderStatus"`
		Count       int64  `json:"count"`
	}
	err = initializers.DB.
		Model(&models.Order{}).
		Select("order_status, COUNT(*) AS count").
		Where("paid_at IS NOT NULL").
		Group("order_status").
		Scan(&statusRows).Error
	if err != nil {
		log.Println("Order status count error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch dashboard stats")
		return
	}
	orderStatusCounts := make(map[string]int64, len(statusRows))
	for _, row := range statusRows {
		orderStatusCounts[row.OrderStatus] = row.Count
	}

	var topSellingProducts []struct {
		Name      string `json:"name"`
		TotalSold int64  `json:"totalSold"`
	}
	err = initializers.DB.
		Table("order_items").
		Select("products.name AS name, SUM(order_items.quantity) AS total_sold").
		Joins("JOIN products ON products.id = order_items.product_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.paid_at IS NOT NULL").
		Group("products.name").
		Order("total_sold DESC").
		Limit(5).
		Scan(&topSellingProducts).Error
	if err != nil {
		log.Println("Top seller query error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch dashboard stats")
		return
	}

	var lowStockProducts []struct {
		Name  string `json:"name"`
		Stock int    `json:"stock"`
	}
	err = initializers.DB.
		Model(&models.Product{}).
		Select("name, stock").
		Where("stock <= ?", lowStockThreshold).
		Scan(&lowStockProducts).Error
	if err != nil {
		log.Println("Low stock query error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch dashboard stats")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success":            true,
		"totalRevenue":       totalRevenue,
		"todayRevenue":       todayRevenue,
		"totalUsers":         totalUsers,
		"orderStatusCounts":  orderStatusCounts,
		"topSellingProducts": topSellingProducts,
		"lowStockProducts":   lowStockProducts,
	})
}

// GetAllUsers lists customer accounts, newest first.
func GetAllUsers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	offset := (page - 1) * limit

	var total int64
	if err := initializers.DB.Model(&models.User{}).Where("role = ?", "User").Count(&total).Error; err != nil {
		log.Println("User count error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	var users []models.User
	result := initializers.DB.
		Select("id, fullname, email, phone, role, created_at").
		Where("role = ?", "User").
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&users)
	if result.Error != nil {
		log.Println("User fetch error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success":     true,
		"totalUsers":  total,
		"currentPage": page,
		"users":       users,
	})
}

func DeleteUser(ctx *gin.Context) {
	userId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse user id.")
		return
	}

	var user models.User
	if err := initializers.DB.First(&user, userId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "User not found")
		} else {
			log.Println("User lookup error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch user")
		}
		return
	}

	if err := initializers.DB.Delete(&user).Error; err != nil {
		log.Println("User delete error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
}
