package routes

import (
	"github.com/Manizz11/6thsem-ecommerce/controllers"
	"github.com/Manizz11/6thsem-ecommerce/middlewares"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(server *gin.Engine) {
	order := server.Group("/order", middlewares.RequireAuth())
	{
		order.POST("/new", controllers.PlaceOrder)
		order.GET("/my", controllers.GetMyOrders)
		order.GET("/my/:orderId", controllers.GetMyOrderById)
	}

	admin := server.Group("/order/admin", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.GET("/getall", controllers.GetOrders)
		admin.GET("/undelivered", controllers.GetUndeliveredOrders)
		admin.PATCH("/update/:orderId", controllers.UpdateOrderStatus)
		admin.DELETE("/delete/:orderId", controllers.DeleteOrder)
	}
}
