package routes

import (
	"github.com/Manizz11/6thsem-ecommerce/controllers"
	"github.com/Manizz11/6thsem-ecommerce/middlewares"
	"github.com/gin-gonic/gin"
)

func ProductRoutes(server *gin.Engine) {
	server.GET("/product", controllers.GetProducts)
	server.GET("/product/:id", controllers.GetProduct)

	review := server.Group("/product/:id/review", middlewares.RequireAuth())
	{
		review.POST("", controllers.PostProductReview)
		review.DELETE("", controllers.DeleteProductReview)
	}

	admin := server.Group("/", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.POST("/product", controllers.CreateProduct)
		admin.PUT("/product/:id", controllers.UpdateProduct)
		admin.DELETE("/product/:id", controllers.DeleteProduct)
		admin.POST("/product-images", controllers.UploadProductImages)
	}
}
