package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	SKU              string             `bson:"sku,omitempty" json:"sku,omitempty"`
	ShortDescription string             `bson:"shortDescription,omitempty" json:"shortDescription,omitempty"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	CategoryID       string             `bson:"categoryId,omitempty" json:"categoryId,omitempty"`
	CategoryName     string             `bson:"categoryName,omitempty" json:"categoryName,omitempty"`
	Brand            string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Tags             StringList         `bson:"tags" json:"tags"`
	Price            float64            `bson:"price" json:"price"`
	ComparePrice     *float64           `bson:"comparePrice,omitempty" json:"comparePrice,omitempty"`
	Stock            int                `bson:"stock" json:"stock"`
	InStock          bool               `bson:"-" json:"inStock"`
	DisplayPrice     *PriceDisplay      `bson:"-" json:"displayPrice,omitempty"`
	IsActive         bool               `bson:"isActive" json:"isActive"`
	IsFeatured       bool               `bson:"isFeatured" json:"isFeatured"`
	IsDigital        bool               `bson:"isDigital" json:"isDigital"`
	Images           StringList         `bson:"images" json:"images"`
	IsDeleted        bool               `bson:"isDeleted" json:"isDeleted,omitempty"`
	DeletedAt        *time.Time         `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
