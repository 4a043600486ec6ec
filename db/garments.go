package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zarpado/zarpado-api/models"
)

// GarmentRepo provides access to the prendas collection.
type GarmentRepo struct {
	col *mongo.Collection
}

func NewGarmentRepo(client *mongo.Client) *GarmentRepo {
	return &GarmentRepo{col: client.Database(Database).Collection("prendas")}
}

func garmentFilter(id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrGarmentNotFound
	}
	return bson.M{"_id": oid}, nil
}

func (r *GarmentRepo) Insert(ctx context.Context, g *models.Garment) (string, error) {
	res, err := r.col.InsertOne(ctx, g)
	if err != nil {
		return "", fmt.Errorf("failed to insert garment: %w", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	g.ID = oid
	return oid.Hex(), nil
}

func (r *GarmentRepo) FindByID(ctx context.Context, id string) (*models.Garment, error) {
	filter, err := garmentFilter(id)
	if err != nil {
		return nil, err
	}
	var g models.Garment
	if err := r.col.FindOne(ctx, filter).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGarmentNotFound
		}
		return nil, fmt.Errorf("failed to fetch garment: %w", err)
	}
	return &g, nil
}

func (r *GarmentRepo) find(ctx context.Context, filter bson.M) ([]models.Garment, error) {
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list garments: %w", err)
	}
	defer cursor.Close(ctx)

	garments := []models.Garment{}
	if err := cursor.All(ctx, &garments); err != nil {
		return nil, fmt.Errorf("failed to decode garments: %w", err)
	}
	return garments, nil
}

func (r *GarmentRepo) List(ctx context.Context) ([]models.Garment, error) {
	return r.find(ctx, bson.M{})
}

func (r *GarmentRepo) ListByTipo(ctx context.Context, tipo string) ([]models.Garment, error) {
	return r.find(ctx, bson.M{"tipo": tipo})
}

func (r *GarmentRepo) ListByMarca(ctx context.Context, marca string) ([]models.Garment, error) {
	return r.find(ctx, bson.M{"marca": marca})
}

func (r *GarmentRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	filter, err := garmentFilter(id)
	if err != nil {
		return err
	}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update garment: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrGarmentNotFound
	}
	return nil
}

func (r *GarmentRepo) Delete(ctx context.Context, id string) error {
	filter, err := garmentFilter(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete garment: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrGarmentNotFound
	}
	return nil
}
