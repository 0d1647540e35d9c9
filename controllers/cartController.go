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

// The cart here is a per-user mirror of the client-held cart so a shopper
// can pick up where they left off on another device. The client cart stays
// the source of truth until checkout.

func findOrCreateCart(userId int) (models.Cart, error) {
	var cart models.Cart
	err := initializers.DB.Where("user_id = ?", userId).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userId}
		err = initializers.DB.Create(&cart).Error
	}
	return cart, err
}

func CreateCartItem(ctx *gin.Context) {
	var cartItem models.CartItem
	if err := ctx.ShouldBindJSON(&cartItem); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid input")
		return
	}

	cart, err := findOrCreateCart(currentUserID(ctx))
	if err != nil {
		log.Println("Cart lookup error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch cart")
		return
	}
	cartItem.CartID = int(cart.ID)

	var existingCartItem models.CartItem
	err = initializers.DB.
		Where("cart_id = ? AND product_id = ?", cart.ID, cartItem.ProductID).
		First(&existingCartItem).Error

	if err == nil {
		existingCartItem.ProductQuantity += cartItem.ProductQuantity
		if err := initializers.DB.Save(&existingCartItem).Error; err != nil {
			log.Println("Update error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to update cart item quantity.")
			return
		}

		sendJSONResponse(ctx, http.StatusOK, gin.H{
			"message": "Cart item quantity updated",
			"id":      existingCartItem.ID,
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("Database error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch cart item")
		return
	}

	if err := initializers.DB.Create(&cartItem).Error; err != nil {
		log.Println("Create error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to create cart item")
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": cartItem.ProductName + " added to cart",
		"id":      cartItem.ID,
	})
}

func GetCart(ctx *gin.Context) {
	userId, err := strconv.Atoi(ctx.Param("userId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse userId")
		return
	}

	var cart models.Cart
	result := initializers.DB.
		Where("user_id = ?", userId).
		Preload("Items").
		First(&cart)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Cart not found")
		} else {
			log.Println("Database error:", result.Error)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch cart")
		}
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"cart": cart})
}

func DeleteCartItem(ctx *gin.Context) {
	itemId, err := strconv.Atoi(ctx.Param("itemId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse itemId")
		return
	}

	result := initializers.DB.Delete(&models.CartItem{}, itemId)
	if result.Error != nil {
		log.Println("Delete error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to remove cart item")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Cart item not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart item removed"})
}
