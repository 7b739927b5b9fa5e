package orders

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrSampleNotFound = errors.New("sample not found")

type SampleStatus string

const (
	SampleStatusPending   SampleStatus = "pending"
	SampleStatusCollected SampleStatus = "collected"
	SampleStatusRejected  SampleStatus = "rejected"
)

type Sample struct {
	Id          *primitive.ObjectID `bson:"_id,omitempty" mapstructure:"_id"`
	Barcode     *string             `bson:"barcode,omitempty" mapstructure:"barcode"`
	OrderId     *primitive.ObjectID `bson:"orderId,omitempty" mapstructure:"orderId"`
	Status      SampleStatus        `bson:"status" mapstructure:"status"`
	CollectedAt *time.Time          `bson:"collectedAt,omitempty" mapstructure:"collectedAt"`
	CollectedBy *string             `bson:"collectedBy,omitempty" mapstructure:"collectedBy"`
	RejectedAt  *time.Time          `bson:"rejectedAt,omitempty" mapstructure:"rejectedAt"`
	RejectedBy  *string             `bson:"rejectedBy,omitempty" mapstructure:"rejectedBy"`

	RejectionHistory []RejectionRecord `bson:"rejectionHistory,omitempty" mapstructure:"rejectionHistory"`

	// OriginalSampleId links a recollected sample back to the sample it
	// replaces, forming a recollection chain.
	OriginalSampleId *primitive.ObjectID `bson:"originalSampleId,omitempty" mapstructure:"originalSampleId"`
}

//go:generate go tool mockgen -source=./samples.go -destination=./test/mock_sample_repository.go -package test MockSampleRepository

type SampleService interface {
	GetSample(ctx context.Context, id string) (*Sample, error)
	ListSamples(ctx context.Context, orderId string) ([]*Sample, error)
	CreateSample(ctx context.Context, sample Sample) (*Sample, error)

	// CreateRecollection marks the original sample rejected and inserts a
	// fresh pending sample linked to it, in a single transaction.
	CreateRecollection(ctx context.Context, originalId string, record RejectionRecord) (*Sample, error)
}
