package entity

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewId returns a fresh internal identifier in ObjectID hex form.
func NewId() string {
	return primitive.NewObjectID().Hex()
}

// IsId reports whether s has the shape of an internal identifier.
func IsId(s string) bool {
	return primitive.IsValidObjectID(s)
}
