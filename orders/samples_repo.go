package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"

	"github.com/openlabs-org/labops/pointer"
)

const (
	samplesCollectionName = "samples"
)

type SampleRepository interface {
	SampleService
}

func NewSampleRepository(db *mongo.Database, lifecycle fx.Lifecycle) (SampleRepository, error) {
	repo := &sampleRepository{
		collection: db.Collection(samplesCollectionName),
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return repo.Initialize(ctx)
		},
	})

	return repo, nil
}

type sampleRepository struct {
	collection *mongo.Collection
}

func (r *sampleRepository) Initialize(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "orderId", Value: 1},
			},
			Options: options.Index().SetName("OrderSamples"),
		},
		{
			Keys: bson.D{
				{Key: "barcode", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("UniqueBarcode"),
		},
	})
	return err
}

func (r *sampleRepository) GetSample(ctx context.Context, id string) (*Sample, error) {
	objId, _ := primitive.ObjectIDFromHex(id)
	selector := bson.M{
		"_id": objId,
	}

	sample := &Sample{}
	err := r.collection.FindOne(ctx, selector).Decode(&sample)
	if err == mongo.ErrNoDocuments {
		return nil, ErrSampleNotFound
	} else if err != nil {
		return nil, err
	}

	return sample, nil
}

func (r *sampleRepository) ListSamples(ctx context.Context, orderId string) ([]*Sample, error) {
	objId, _ := primitive.ObjectIDFromHex(orderId)
	selector := bson.M{
		"orderId": objId,
	}

	cursor, err := r.collection.Find(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("error listing samples: %w", err)
	}

	var samples []*Sample
	if err = cursor.All(ctx, &samples); err != nil {
		return nil, fmt.Errorf("error decoding samples list: %w", err)
	}

	return samples, nil
}

func (r *sampleRepository) CreateSample(ctx context.Context, sample Sample) (*Sample, error) {
	if sample.Barcode == nil {
		sample.Barcode = pointer.FromAny(uuid.NewString())
	}
	if sample.Status == "" {
		sample.Status = SampleStatusPending
	}

	res, err := r.collection.InsertOne(ctx, sample)
	if err != nil {
		return nil, fmt.Errorf("error creating sample: %w", err)
	}

	id := res.InsertedID.(primitive.ObjectID)
	return r.GetSample(ctx, id.Hex())
}

func (r *sampleRepository) CreateRecollection(ctx context.Context, originalId string, record RejectionRecord) (*Sample, error) {
	originalObjId, err := primitive.ObjectIDFromHex(originalId)
	if err != nil {
		return nil, ErrSampleNotFound
	}

	// Callers that need atomicity with other writes run this inside a
	// store.TransactionRunner; the session travels in ctx.
	original := &Sample{}
	err = r.collection.FindOne(ctx, bson.M{"_id": originalObjId}).Decode(&original)
	if err == mongo.ErrNoDocuments {
		return nil, ErrSampleNotFound
	} else if err != nil {
		return nil, err
	}

	update := bson.M{
		"$set": bson.M{
			"status":     SampleStatusRejected,
			"rejectedAt": record.RejectedAt,
			"rejectedBy": record.RejectedBy,
		},
		"$push": bson.M{
			"rejectionHistory": record,
		},
	}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": originalObjId}, update); err != nil {
		return nil, fmt.Errorf("error rejecting original sample: %w", err)
	}

	replacement := Sample{
		Barcode:          pointer.FromAny(uuid.NewString()),
		OrderId:          original.OrderId,
		Status:           SampleStatusPending,
		OriginalSampleId: original.Id,
	}
	res, err := r.collection.InsertOne(ctx, replacement)
	if err != nil {
		return nil, fmt.Errorf("error creating recollection sample: %w", err)
	}

	id := res.InsertedID.(primitive.ObjectID)
	replacement.Id = &id
	return &replacement, nil
}
