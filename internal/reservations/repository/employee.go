package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	reserrors "mensa/internal/reservations/errors"
	"mensa/pkg/config"
	"mensa/pkg/model"
)

const (
	EmployeeCollectionName = "CanteenEmployees"
)

// EmployeeRepository is the authorization boundary for no-show registration.
// The reservation service only checks existence; canteen membership rules
// belong to the catalog service.
type EmployeeRepository interface {
	FindByID(ctx context.Context, id string) (*model.CanteenEmployee, error)
}

type mongoEmployeeRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoEmployeeRepository(cfg *config.Config) EmployeeRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoEmployeeRepository{
		cfg:        cfg,
		collection: db.Collection(EmployeeCollectionName),
	}
}

func (r *mongoEmployeeRepository) FindByID(ctx context.Context, id string) (*model.CanteenEmployee, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reserrors.ErrInvalidID, id)
	}

	var employee model.CanteenEmployee
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&employee)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}

	return &employee, nil
}
