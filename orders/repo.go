package orders

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
	ordersCollectionName = "orders"
)

type Repository interface {
	Service
}

func NewRepository(db *mongo.Database, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) (Repository, error) {
	deletionsRepo, err := deletions.NewRepository[Order]("order", db, logger)
	if err != nil {
		return nil, err
	}

	repo := &repository{
		collection:    db.Collection(ordersCollectionName),
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
	deletionsRepo deletions.Repository[Order]
}

func (r *repository) Initialize(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "patientId", Value: 1},
				{Key: "orderedAt", Value: -1},
			},
			Options: options.Index().SetName("PatientOrders"),
		},
		{
			Keys: bson.D{
				{Key: "tests.status", Value: 1},
			},
			Options: options.Index().SetName("TestStatus"),
		},
	})
	return err
}

func (r *repository) Get(ctx context.Context, id string) (*Order, error) {
	objId, _ := primitive.ObjectIDFromHex(id)
	selector := bson.M{
		"_id": objId,
	}

	order := &Order{}
	err := r.collection.FindOne(ctx, selector).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return order, nil
}

func (r *repository) List(ctx context.Context, filter *Filter, pagination store.Pagination) ([]*Order, error) {
	opts := options.Find().
		SetLimit(int64(pagination.Limit)).
		SetSkip(int64(pagination.Offset)).
		SetSort(bson.D{{Key: "orderedAt", Value: -1}})

	selector := bson.M{}
	if len(filter.PatientIds) > 0 {
		selector["patientId"] = bson.M{
			"$in": store.ObjectIDSFromStringArray(filter.PatientIds),
		}
	}
	if filter.Priority != nil {
		selector["priority"] = filter.Priority
	}
	if filter.TestStatus != nil {
		selector["tests.status"] = filter.TestStatus
	}

	cursor, err := r.collection.Find(ctx, selector, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing orders: %w", err)
	}

	var orders []*Order
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("error decoding orders list: %w", err)
	}

	return orders, nil
}

func (r *repository) Create(ctx context.Context, order Order) (*Order, error) {
	if order.OrderedAt == nil {
		now := time.Now()
		order.OrderedAt = &now
	}
	for i := range order.Tests {
		if order.Tests[i].Status == "" {
			order.Tests[i].Status = TestStatusPending
		}
		if order.Tests[i].RejectionHistory == nil {
			order.Tests[i].RejectionHistory = []RejectionRecord{}
		}
	}

	res, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("error creating order: %w", err)
	}

	id := res.InsertedID.(primitive.ObjectID)
	return r.Get(ctx, id.Hex())
}

func (r *repository) Remove(ctx context.Context, id string) error {
	order, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := r.deletionsRepo.Create(ctx, *order, deletions.Metadata{}); err != nil {
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

func (r *repository) ApplyRejection(ctx context.Context, u RejectionUpdate) (*Order, error) {
	objId, _ := primitive.ObjectIDFromHex(u.OrderId)
	selector := bson.M{
		"_id": objId,
		"tests": bson.M{
			"$elemMatch": bson.M{
				"testCode":               u.TestCode,
				"status":                 u.ExpectedStatus,
				"resultRejectionHistory": bson.M{"$size": u.ExpectedRejections},
			},
		},
	}

	set := bson.M{
		"tests.$[t].status": u.NewStatus,
	}
	if u.NewSampleId != nil {
		set["tests.$[t].sampleId"] = *u.NewSampleId
	}
	if u.RetestNumber != nil {
		set["tests.$[t].isRetest"] = true
		set["tests.$[t].retestNumber"] = *u.RetestNumber
	}

	update := bson.M{
		"$set": set,
		"$push": bson.M{
			"tests.$[t].resultRejectionHistory": u.Record,
		},
	}
	if u.ClearResults {
		update["$unset"] = clearedResultFields()
	}

	return r.conditionalTestUpdate(ctx, u.OrderId, u.TestCode, selector, update)
}

func (r *repository) ResolveEscalation(ctx context.Context, u EscalationUpdate) (*Order, error) {
	objId, _ := primitive.ObjectIDFromHex(u.OrderId)
	selector := bson.M{
		"_id": objId,
		"tests": bson.M{
			"$elemMatch": bson.M{
				"testCode": u.TestCode,
				"status":   TestStatusRejected,
				"resultRejectionHistory": bson.M{
					"$elemMatch": bson.M{"rejectionType": RejectionTypeEscalate},
				},
				"escalationResolvedAt": bson.M{"$exists": false},
			},
		},
	}

	set := bson.M{
		"tests.$[t].status":               u.NewStatus,
		"tests.$[t].escalationResolution": u.Resolution,
		"tests.$[t].escalationResolvedAt": u.ResolvedAt,
		"tests.$[t].escalationResolvedBy": u.ResolvedBy,
	}
	if u.Notes != nil {
		set["tests.$[t].escalationNotes"] = *u.Notes
	}
	if u.NewSampleId != nil {
		set["tests.$[t].sampleId"] = *u.NewSampleId
	}
	if u.RetestNumber != nil {
		set["tests.$[t].isRetest"] = true
		set["tests.$[t].retestNumber"] = *u.RetestNumber
	}
	if u.ValidatedAt != nil {
		set["tests.$[t].resultValidatedAt"] = *u.ValidatedAt
	}

	update := bson.M{
		"$set": set,
	}
	if u.ClearResults {
		update["$unset"] = clearedResultFields()
	}

	return r.conditionalTestUpdate(ctx, u.OrderId, u.TestCode, selector, update)
}

func (r *repository) SetCriticalNotified(ctx context.Context, orderId, testCode string, at time.Time) (bool, error) {
	return r.stampOnce(ctx, orderId, testCode, "criticalNotifiedAt", at)
}

func (r *repository) SetCriticalAcknowledged(ctx context.Context, orderId, testCode string, at time.Time) (bool, error) {
	return r.stampOnce(ctx, orderId, testCode, "criticalAcknowledgedAt", at)
}

// stampOnce sets a test timestamp if and only if it is currently unset.
// A second call matches nothing and reports false without an error, which
// is what makes notifications idempotent at the store level.
func (r *repository) stampOnce(ctx context.Context, orderId, testCode, field string, at time.Time) (bool, error) {
	objId, _ := primitive.ObjectIDFromHex(orderId)
	selector := bson.M{
		"_id": objId,
		"tests": bson.M{
			"$elemMatch": bson.M{
				"testCode": testCode,
				field:      bson.M{"$exists": false},
			},
		},
	}
	update := bson.M{
		"$set": bson.M{
			"tests.$[t]." + field: at,
		},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"t.testCode": testCode}},
	})

	res, err := r.collection.UpdateOne(ctx, selector, update, opts)
	if err != nil {
		return false, fmt.Errorf("error stamping %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		// Distinguish "already stamped" from "no such test".
		order, err := r.Get(ctx, orderId)
		if err != nil {
			return false, err
		}
		if _, err := order.Test(testCode); err != nil {
			return false, err
		}
		return false, nil
	}

	return true, nil
}

func (r *repository) conditionalTestUpdate(ctx context.Context, orderId, testCode string, selector, update bson.M) (*Order, error) {
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"t.testCode": testCode}},
	})

	res, err := r.collection.UpdateOne(ctx, selector, update, opts)
	if err != nil {
		return nil, fmt.Errorf("error updating order test: %w", err)
	}
	if res.MatchedCount == 0 {
		// The precondition did not hold. Figure out whether the order and
		// test exist at all so callers can tell stale state from a miss.
		order, err := r.Get(ctx, orderId)
		if err != nil {
			return nil, err
		}
		if _, err := order.Test(testCode); err != nil {
			return nil, err
		}
		return nil, ErrStale
	}

	return r.Get(ctx, orderId)
}

func clearedResultFields() bson.M {
	return bson.M{
		"tests.$[t].results":           "",
		"tests.$[t].resultEnteredAt":   "",
		"tests.$[t].resultValidatedAt": "",
		"tests.$[t].hasCriticalValues": "",
	}
}
