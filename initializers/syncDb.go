package initializers

import (
	"log"

	"github.com/Manizz11/6thsem-ecommerce/models"
)

func SyncDatabase() {
	DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductImage{},
		&models.Review{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.ShippingInfo{},
		&models.Payment{},
	)
	log.Println("Database synced successfully.")
}
