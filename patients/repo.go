package patients

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/openlabs-org/labops/deletions"
	"github.com/openlabs-org/labops/store"
)

const (
	patientsCollectionName = "patients"
)

//go:generate go tool mockgen -source=./repo.go -destination=./test/mock_repository.go -package test -aux_files=github.com/openlabs-org/labops/patients=patients.go MockRepository

type Repository interface {
	Service
}

func NewRepository(db *mongo.Database, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) (Repository, error) {
	deletionsRepo, err := deletions.NewRepository[Patient]("patient", db, logger)
	if err != nil {
		return nil, err
	}

	repo := &repository{
		collection:    db.Collection(patientsCollectionName),
		deletionsRepo: deletionsRepo,
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := repo.Initialize(ctx); err != nil {
				return err
			}
			return repo.deletionsRepo.Initialize(ctx, []string{"_id"})
		},
	})

	return repo, nil
}

type repository struct {
	collection    *mongo.Collection
	deletionsRepo deletions.Repository[Patient]
}

func (r *repository) Initialize(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "mrn", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("UniqueMrn"),
		},
		{
			Keys: bson.D{
				{Key: "fullName", Value: "text"},
				{Key: "email", Value: "text"},
				{Key: "mrn", Value: "text"},
			},
			Options: options.Index().
				SetName("PatientSearch"),
		},
	})
	return err
}

func (r *repository) Get(ctx context.Context, id string) (*Patient, error) {
	objId, _ := primitive.ObjectIDFromHex(id)
	selector := bson.M{
		"_id": objId,
	}

	patient := &Patient{}
	err := r.collection.FindOne(ctx, selector).Decode(&patient)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return patient, nil
}

func (r *repository) List(ctx context.Context, filter *Filter, pagination store.Pagination) ([]*Patient, error) {
	opts := options.Find().
		SetLimit(int64(pagination.Limit)).
		SetSkip(int64(pagination.Offset))

	selector := bson.M{}
	if filter.Mrn != nil {
		selector["mrn"] = filter.Mrn
	}
	if filter.Search != nil {
		selector["$text"] = bson.M{
			"$search": filter.Search,
		}
		textScore := bson.M{
			"score": bson.M{
				"$meta": "textScore",
			},
		}
		opts.SetProjection(textScore)
		opts.SetSort(textScore)
	}

	cursor, err := r.collection.Find(ctx, selector, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing patients: %w", err)
	}

	var patients []*Patient
	if err = cursor.All(ctx, &patients); err != nil {
		return nil, fmt.Errorf("error decoding patients list: %w", err)
	}

	return patients, nil
}

func (r *repository) Create(ctx context.Context, patient Patient) (*Patient, error) {
	now := primitive.NewDateTimeFromTime(time.Now())
	patient.CreatedAt = &now
	patient.UpdatedAt = &now

	res, err := r.collection.InsertOne(ctx, patient)
	if err != nil {
		if store.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("error creating patient: %w", err)
	}

	id := res.InsertedID.(primitive.ObjectID)
	return r.Get(ctx, id.Hex())
}

func (r *repository) Update(ctx context.Context, id string, patient Patient) (*Patient, error) {
	objId, _ := primitive.ObjectIDFromHex(id)
	now := primitive.NewDateTimeFromTime(time.Now())
	patient.Id = nil
	patient.CreatedAt = nil
	patient.UpdatedAt = &now

	selector := bson.M{
		"_id": objId,
	}
	update := bson.M{
		"$set": patient,
	}

	res, err := r.collection.UpdateOne(ctx, selector, update)
	if err != nil {
		if store.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("error updating patient: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}

	return r.Get(ctx, id)
}

func (r *repository) Remove(ctx context.Context, id string) error {
	patient, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := r.deletionsRepo.Create(ctx, *patient, deletions.Metadata{}); err != nil {
		return err
	}

	objId, _ := primitive.ObjectIDFromHex(id)
	selector := bson.M{
		"_id": objId,
	}

	res, err := r.collection.DeleteOne(ctx, selector)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}
