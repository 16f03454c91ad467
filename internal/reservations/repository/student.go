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
	StudentCollectionName = "Students"
)

type StudentRepository interface {
	FindByID(ctx context.Context, id string) (*model.Student, error)
	Update(ctx context.Context, student *model.Student) (*model.Student, error)
}

type mongoStudentRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoStudentRepository(cfg *config.Config) StudentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoStudentRepository{
		cfg:        cfg,
		collection: db.Collection(StudentCollectionName),
	}
}

func (r *mongoStudentRepository) FindByID(ctx context.Context, id string) (*model.Student, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reserrors.ErrInvalidID, id)
	}

	var student model.Student
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&student)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find student: %w", err)
	}

	return &student, nil
}

func (r *mongoStudentRepository) Update(ctx context.Context, student *model.Student) (*model.Student, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(student.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reserrors.ErrInvalidID, student.ID)
	}

	update := bson.M{
		"$set": bson.M{
			"name":           student.Name,
			"student_number": student.StudentNumber,
			"email":          student.Email,
			"phone_number":   student.PhoneNumber,
			"study_city":     student.StudyCity,
			"date_of_birth":  student.DateOfBirth,
			"no_show_count":  student.NoShowCount,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, reserrors.ErrNotFound
	}

	return student, nil
}
