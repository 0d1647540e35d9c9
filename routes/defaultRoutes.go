package routes

import (
	"github.com/Manizz11/6thsem-ecommerce/controllers"
	"github.com/gin-gonic/gin"
)

func DefaultRoutes(server *gin.Engine) {
	server.GET("/", controllers.GetHome)
}
