package routes

import (
	"github.com/Manizz11/6thsem-ecommerce/controllers"
	"github.com/Manizz11/6thsem-ecommerce/middlewares"
	"github.com/gin-gonic/gin"
)

func PaymentRoutes(server *gin.Engine) {
	payment := server.Group("/payment")
	{
		payment.POST("/initiate", middlewares.RequireAuth(), controllers.InitiatePayment)
		// Verification callbacks arrive from the gateway redirect, outside
		// the authenticated session.
		payment.POST("/esewa/verify", controllers.VerifyEsewaPayment)
		payment.POST("/khalti/verify", controllers.VerifyKhaltiPayment)
	}
}
