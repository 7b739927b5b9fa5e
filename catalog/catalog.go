package catalog

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/openlabs-org/labops/store"
)

var ErrNotFound = errors.New("test definition not found")
var ErrDuplicate = errors.New("a test with the same code already exists")

type Service interface {
	Get(ctx context.Context, code string) (*TestDefinition, error)
	List(ctx context.Context, filter *Filter, pagination store.Pagination) ([]*TestDefinition, error)
	Create(ctx context.Context, definition TestDefinition) (*TestDefinition, error)
	Update(ctx context.Context, code string, definition TestDefinition) (*TestDefinition, error)
	Disable(ctx context.Context, code string) error
}

// TestDefinition describes an orderable assay and the parameters it reports.
type TestDefinition struct {
	Id         *primitive.ObjectID `bson:"_id,omitempty"`
	Code       *string             `bson:"code,omitempty"`
	Name       *string             `bson:"name,omitempty"`
	Category   *string             `bson:"category,omitempty"`
	SampleType *string             `bson:"sampleType,omitempty"`
	Price      *float64            `bson:"price,omitempty"`
	Disabled   *bool               `bson:"disabled,omitempty"`
	Parameters []Parameter         `bson:"parameters,omitempty"`
}

// Parameter is a single reported value of an assay. ReferenceRange is the
// human readable range string printed on reports, e.g. "4.0 - 11.0" or
// "< 200". CriticalLow/CriticalHigh bound the values that trigger
// physician notification.
type Parameter struct {
	Name           string   `bson:"name"`
	Unit           *string  `bson:"unit,omitempty"`
	ReferenceRange *string  `bson:"referenceRange,omitempty"`
	CriticalLow    *float64 `bson:"criticalLow,omitempty"`
	CriticalHigh   *float64 `bson:"criticalHigh,omitempty"`
}

type Filter struct {
	Category        *string
	IncludeDisabled bool
	Search          *string
}
