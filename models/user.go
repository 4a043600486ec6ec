package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered user. Historial holds the storage keys of
// generated try-on images, newest last, capped at five entries. Favoritos
// holds keys the user pinned; insertion order is preserved.
type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username         string             `bson:"username" json:"username"`
	Email            string             `bson:"email" json:"email"`
	Password         string             `bson:"password" json:"-"` // Password is not returned in JSON
	Rol              string             `bson:"rol" json:"rol"`    // "final" or "admin"
	ProfileImagePath string             `bson:"profile_image_path" json:"profile_image_path,omitempty"`
	Historial        []string           `bson:"historial" json:"historial"`
	Favoritos        []string           `bson:"favoritos" json:"favoritos"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}
