package catalog

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"

	"github.com/openlabs-org/labops/store"
)

const (
	catalogCollectionName = "testCatalog"
)

type Repository interface {
	Service
}

func NewRepository(db *mongo.Database, lifecycle fx.Lifecycle) (Repository, error) {
	repo := &repository{
		collection: db.Collection(catalogCollectionName),
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return repo.Initialize(ctx)
		},
	})

	return repo, nil
}

type repository struct {
	collection *mongo.Collection
}

func (r *repository) Initialize(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "code", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("UniqueTestCode"),
		},
		{
			Keys: bson.D{
				{Key: "name", Value: "text"},
				{Key: "category", Value: "text"},
			},
			Options: options.Index().
				SetName("TestSearch"),
		},
	})
	return err
}

func (r *repository) Get(ctx context.Context, code string) (*TestDefinition, error) {
	selector := bson.M{
		"code": code,
	}

	definition := &TestDefinition{}
	err := r.collection.FindOne(ctx, selector).Decode(&definition)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return definition, nil
}

func (r *repository) List(ctx context.Context, filter *Filter, pagination store.Pagination) ([]*TestDefinition, error) {
	opts := options.Find().
		SetLimit(int64(pagination.Limit)).
		SetSkip(int64(pagination.Offset)).
		SetSort(bson.D{{Key: "code", Value: 1}})

	selector := bson.M{}
	if filter.Category != nil {
		selector["category"] = filter.Category
	}
	if !filter.IncludeDisabled {
		selector["disabled"] = bson.M{"$ne": true}
	}
	if filter.Search != nil {
		selector["$text"] = bson.M{
			"$search": filter.Search,
		}
	}

	cursor, err := r.collection.Find(ctx, selector, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing test definitions: %w", err)
	}

	var definitions []*TestDefinition
	if err = cursor.All(ctx, &definitions); err != nil {
		return nil, fmt.Errorf("error decoding test definitions: %w", err)
	}

	return definitions, nil
}

func (r *repository) Create(ctx context.Context, definition TestDefinition) (*TestDefinition, error) {
	if _, err := r.collection.InsertOne(ctx, definition); err != nil {
		if store.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("error creating test definition: %w", err)
	}

	return r.Get(ctx, *definition.Code)
}

func (r *repository) Update(ctx context.Context, code string, definition TestDefinition) (*TestDefinition, error) {
	definition.Id = nil
	definition.Code = nil

	selector := bson.M{
		"code": code,
	}
	update := bson.M{
		"$set": definition,
	}

	res, err := r.collection.UpdateOne(ctx, selector, update)
	if err != nil {
		return nil, fmt.Errorf("error updating test definition: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}

	return r.Get(ctx, code)
}

func (r *repository) Disable(ctx context.Context, code string) error {
	selector := bson.M{
		"code": code,
	}
	update := bson.M{
		"$set": bson.M{"disabled": true},
	}

	res, err := r.collection.UpdateOne(ctx, selector, update)
	if err != nil {
		return fmt.Errorf("error disabling test definition: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}
