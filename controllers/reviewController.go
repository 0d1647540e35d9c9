package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/Manizz11/6thsem-ecommerce/initializers"
	"github.com/Manizz11/6thsem-ecommerce/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PostProductReview creates or replaces the caller's review of a product.
// Only buyers with a completed payment for the product may review it.
func PostProductReview(ctx *gin.Context) {
	productId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid product id")
		return
	}

	var input struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil || input.Rating == 0 || input.Comment == "" {
		sendErrorResponse(ctx, http.StatusBadRequest, "Please provide rating and comment.")
		return
	}

	userId := currentUserID(ctx)

	var purchases int64
	err = initializers.DB.
		Table("order_items").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN payments ON payments.order_id = orders.id").
		Where("orders.buyer_id = ? AND order_items.product_id = ? AND payments.payment_status = ?",
			userId, productId, models.PaymentStatusCompleted).
		Count(&purchases).Error
	if err != nil {
		log.Println("Purchase check error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to verify purchase")
		return
	}
	if purchases == 0 {
		sendErrorResponse(ctx, http.StatusForbidden, "You can only review a product you've purchased.")
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, productId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Product not found.")
		} else {
			log.Println("Product lookup error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch product")
		}
		return
	}

	var review models.Review
	err = initializers.DB.
		Where("product_id = ? AND user_id = ?", productId, userId).
		First(&review).Error
	switch {
	case err == nil:
		review.Rating = input.Rating
		review.Comment = input.Comment
		err = initializers.DB.Save(&review).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		review = models.Review{
			ProductID: productId,
			UserID:    userId,
			Rating:    input.Rating,
			Comment:   input.Comment,
		}
		err = initializers.DB.Create(&review).Error
	}
	if err != nil {
		log.Println("Review save error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to save review")
		return
	}

	ratings, err := refreshProductRating(productId)
	if err != nil {
		log.Println("Rating refresh error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update product rating")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success": true,
		"message": "Review posted.",
		"ratings": ratings,
	})
}

// DeleteProductReview removes the caller's own review and recomputes the
// product's average rating.
func DeleteProductReview(ctx *gin.Context) {
	productId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid product id")
		return
	}

	userId := currentUserID(ctx)

	var review models.Review
	err = initializers.DB.
		Where("product_id = ? AND user_id = ?", productId, userId).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Review not found.")
		} else {
			log.Println("Review lookup error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch review")
		}
		return
	}

	if err := initializers.DB.Delete(&review).Error; err != nil {
		log.Println("Review delete error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to delete review")
		return
	}

	ratings, err := refreshProductRating(productId)
	if err != nil {
		log.Println("Rating refresh error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update product rating")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success": true,
		"message": "Review deleted.",
		"ratings": ratings,
	})
}

// refreshProductRating recomputes the product's average rating from its
// remaining reviews and stores it on the product row.
func refreshProductRating(productId int) (float64, error) {
	var average float64
	err := initializers.DB.
		Model(&models.Review{}).
		Where("product_id = ?", productId).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&average).Error
	if err != nil {
		return 0, err
	}

	err = initializers.DB.
		Model(&models.Product{}).
		Where("id = ?", productId).
		Update("ratings", average).Error
	if err != nil {
		return 0, err
	}
	return average, nil
}
