package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Brand is a manufacturer entry in the site configuration. ProductCount is
// derived from the products collection on read, never persisted.
type Brand struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Logo         string             `bson:"logo" json:"logo"`
	Path         string             `bson:"path" json:"path"`
	ProductCount int64              `bson:"-" json:"productCount"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
