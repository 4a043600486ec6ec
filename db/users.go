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

// UserRepo provides access to the usuarios collection.
type UserRepo struct {
	col *mongo.Collection
}

func NewUserRepo(client *mongo.Client) *UserRepo {
	return &UserRepo{col: client.Database(Database).Collection("usuarios")}
}

// userFilter builds the _id filter. A malformed hex id matches no user, so
// it is reported as not-found rather than as a distinct error.
func userFilter(id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return bson.M{"_id": oid}, nil
}

func (r *UserRepo) Insert(ctx context.Context, u *models.User) (string, error) {
	if u.Historial == nil {
		u.Historial = []string{}
	}
	if u.Favoritos == nil {
		u.Favoritos = []string{}
	}
	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		return "", fmt.Errorf("failed to insert user: %w", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	u.ID = oid
	return oid.Hex(), nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	filter, err := userFilter(id)
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := r.col.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// UpdateFields applies a field-level $set. Fails with ErrUserNotFound when
// no document matches.
func (r *UserRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	filter, err := userFilter(id)
	if err != nil {
		return err
	}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	filter, err := userFilter(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Exists reports whether a user with the given id is present.
func (r *UserRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, err := r.FindByID(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// History returns the user's current history sequence, oldest first.
func (r *UserRepo) History(ctx context.Context, id string) ([]string, error) {
	u, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.Historial, nil
}

// SetHistory atomically replaces the historial field.
func (r *UserRepo) SetHistory(ctx context.Context, id string, entries []string) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{"historial": entries})
}

// SetFavorites atomically replaces the favoritos field.
func (r *UserRepo) SetFavorites(ctx context.Context, id string, entries []string) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{"favoritos": entries})
}
