package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Garment represents a catalog garment available for virtual try-on
type Garment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Nombre      string             `bson:"nombre" json:"nombre"`
	Tipo        string             `bson:"tipo" json:"tipo"` // e.g. remera, campera, pantalon
	Descripcion string             `bson:"descripcion" json:"descripcion"`
	Marca       string             `bson:"marca" json:"marca"`
	ImagePath   string             `bson:"image_path" json:"image_path,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
