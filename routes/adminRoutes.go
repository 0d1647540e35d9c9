package routes

import (
	"github.com/Manizz11/6thsem-ecommerce/controllers"
	"github.com/Manizz11/6thsem-ecommerce/middlewares"
	"github.com/gin-gonic/gin"
)

func AdminRoutes(server *gin.Engine) {
	admin := server.Group("/admin", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.GET("/stats", controllers.DashboardStats)
		admin.GET("/users", controllers.GetAllUsers)
		admin.DELETE("/users/:id", controllers.DeleteUser)
	}
}
