package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProductImage struct {
	gorm.Model
	Url       string `json:"url" binding:"required"`
	ProductID int    `json:"productId"`
}

type Product struct {
	gorm.Model
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description" binding:"required"`
	Price       float64        `json:"price" binding:"required"`
	Stock       int            `json:"stock"`
	Category    string         `json:"category" binding:"required"`
	Colors      datatypes.JSON `json:"colors"`
	Ratings     float64        `json:"ratings"`
	Images      []ProductImage `json:"images" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Reviews     []Review       `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}
