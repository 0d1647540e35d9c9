package models

import "gorm.io/gorm"

// One review per buyer per product; posting again overwrites the earlier one.
type Review struct {
	gorm.Model
	ProductID int    `json:"productId"`
	UserID    int    `json:"userId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}
