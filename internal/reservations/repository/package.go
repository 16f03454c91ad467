package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	reserrors "mensa/internal/reservations/errors"
	"mensa/pkg/config"
	"mensa/pkg/model"
)

const (
	PackageCollectionName = "Packages"
)

type PackageRepository interface {
	FindByID(ctx context.Context, id string) (*model.Package, error)
	Update(ctx context.Context, pkg *model.Package) (*model.Package, error)
	FindByStudentID(ctx context.Context, studentID string) ([]*model.Package, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoPackageRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoPackageRepository(cfg *config.Config) PackageRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPackageRepository{
		cfg:        cfg,
		collection: db.Collection(PackageCollectionName),
	}
}

// withTimeout wraps the context with a timeout unless it is a transaction
// session context, which cannot be wrapped without breaking the transaction.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithTimeout(ctx, time.Until(deadline))
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoPackageRepository) FindByID(ctx context.Context, id string) (*model.Package, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reserrors.ErrInvalidID, id)
	}

	var pkg model.Package
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&pkg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find package: %w", err)
	}

	return &pkg, nil
}

// Update replaces the package document. An empty ReservedBy is dropped from
// the document entirely, which is what makes the reserved_by index sparse.
func (r *mongoPackageRepository) Update(ctx context.Context, pkg *model.Package) (*model.Package, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(pkg.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reserrors.ErrInvalidID, pkg.ID)
	}

	replacement := *pkg
	replacement.ID = ""

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": objectID}, &replacement)
	if err != nil {
		return nil, fmt.Errorf("failed to update package: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, reserrors.ErrNotFound
	}

	return pkg, nil
}

// FindByStudentID returns the packages reserved by the student. It runs
// against the reserved_by index, never a collection scan.
func (r *mongoPackageRepository) FindByStudentID(ctx context.Context, studentID string) ([]*model.Package, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "pickup_time", Value: 1}}).
		SetHint(bson.D{{Key: "reserved_by", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"reserved_by": studentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find packages by student: %w", err)
	}
	defer cursor.Close(ctx)

	var packages []*model.Package
	if err = cursor.All(ctx, &packages); err != nil {
		return nil, fmt.Errorf("failed to decode packages: %w", err)
	}

	return packages, nil
}

func (r *mongoPackageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "reserved_by", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "pickup_time", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create package indexes: %w", err)
	}
	return nil
}
