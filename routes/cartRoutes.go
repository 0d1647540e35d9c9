package routes

import (
	"github.com/Manizz11/6thsem-ecommerce/controllers"
	"github.com/Manizz11/6thsem-ecommerce/middlewares"
	"github.com/gin-gonic/gin"
)

func CartRoutes(server *gin.Engine) {
	cart := server.Group("/cart", middlewares.RequireAuth())
	{
		cart.POST("", controllers.CreateCartItem)
		cart.GET("/:userId", controllers.GetCart)
	}
	server.DELETE("/cart-item/:itemId", middlewares.RequireAuth(), controllers.DeleteCartItem)
}
