package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the storefront API.

The following are the endpoints for this API:

AUTH
- POST "/auth/signup" - Create user account
- POST "/auth/login" - Access user account

PRODUCT
- GET "/product" - Get all products
- GET "/product/:id" - Get product by ID
- POST "/product" - Create new product (admin)
- PUT "/product/:id" - Update product (admin)
- DELETE "/product/:id" - Delete product (admin)
- POST "/product-images" - Add product images (admin)
- POST "/product/:id/review" - Post or replace your review
- DELETE "/product/:id/review" - Delete your review

CART
- POST "/cart" - Add item to cart
- GET "/cart/:userId" - Get cart for a user
- DELETE "/cart-item/:itemId" - Remove cart item

ORDER
- POST "/order/new" - Place a new order
- GET "/order/my" - Get your paid orders
- GET "/order/my/:orderId" - Get one of your orders
- GET "/order/admin/getall" - Get all orders (admin)
- GET "/order/admin/undelivered" - Count undelivered orders (admin)
- PATCH "/order/admin/update/:orderId" - Update order status (admin)
- DELETE "/order/admin/delete/:orderId" - Delete order (admin)

PAYMENT
- POST "/payment/initiate" - Start an eSewa or Khalti payment
- POST "/payment/esewa/verify" - Verify an eSewa transaction
- POST "/payment/khalti/verify" - Verify a Khalti transaction

ADMIN
- GET "/admin/stats" - Dashboard statistics (admin)
- GET "/admin/users" - List customer accounts (admin)
- DELETE "/admin/users/:id" - Delete a user (admin)`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
