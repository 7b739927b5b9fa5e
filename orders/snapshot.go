package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/mohae/deepcopy"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Snapshot is an immutable read of the full order/sample state. All
// derived views (workflow counts, critical alerts, escalation queue) are
// pure functions over a snapshot; mutations go through the repositories
// and invalidate it.
type Snapshot struct {
	Orders  []Order
	Samples []Sample
	TakenAt time.Time
}

// Clone returns a deep copy, so callers can hold on to derivation inputs
// without aliasing a cached snapshot.
func (s *Snapshot) Clone() *Snapshot {
	return deepcopy.Copy(s).(*Snapshot)
}

//go:generate go tool mockgen -source=./snapshot.go -destination=./test/mock_snapshot.go -package test MockSnapshotService

type SnapshotService interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

func NewSnapshotService(db *mongo.Database) (SnapshotService, error) {
	return &snapshotService{
		orders:  db.Collection(ordersCollectionName),
		samples: db.Collection(samplesCollectionName),
	}, nil
}

type snapshotService struct {
	orders  *mongo.Collection
	samples *mongo.Collection
}

func (s *snapshotService) Snapshot(ctx context.Context) (*Snapshot, error) {
	rawOrders, err := findRaw(ctx, s.orders)
	if err != nil {
		return nil, fmt.Errorf("error reading orders for snapshot: %w", err)
	}
	rawSamples, err := findRaw(ctx, s.samples)
	if err != nil {
		return nil, fmt.Errorf("error reading samples for snapshot: %w", err)
	}

	orders, err := DecodeOrders(rawOrders)
	if err != nil {
		return nil, err
	}
	samples, err := DecodeSamples(rawSamples)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Orders:  orders,
		Samples: samples,
		TakenAt: time.Now(),
	}, nil
}

func findRaw(ctx context.Context, collection *mongo.Collection) ([]map[string]interface{}, error) {
	cursor, err := collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	var docs []map[string]interface{}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	return docs, nil
}
