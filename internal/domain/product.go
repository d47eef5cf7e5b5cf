package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a product in the catalog
type Product struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Brand       string             `json:"brand,omitempty" bson:"brand,omitempty"`
	Category    string             `json:"category,omitempty" bson:"category,omitempty"`
	Price       float64            `json:"price" bson:"price"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Image       string             `json:"image,omitempty" bson:"image,omitempty"`
	Ratings     float64            `json:"ratings,omitempty" bson:"ratings,omitempty"`
	Stock       int                `json:"stock,omitempty" bson:"stock,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// Field names as stored in the product collection.
const (
	FieldID        = "_id"
	FieldName      = "name"
	FieldBrand     = "brand"
	FieldCategory  = "category"
	FieldPrice     = "price"
	FieldCreatedAt = "created_at"
)
