package patients

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/openlabs-org/labops/store"
)

var ErrNotFound = errors.New("patient not found")
var ErrDuplicate = errors.New("a patient with the same mrn already exists")

//go:generate go tool mockgen -source=./patients.go -destination=./test/mock_service.go -package test -aux_files=github.com/openlabs-org/labops/patients=patients.go MockService

type Service interface {
	Get(ctx context.Context, id string) (*Patient, error)
	List(ctx context.Context, filter *Filter, pagination store.Pagination) ([]*Patient, error)
	Create(ctx context.Context, patient Patient) (*Patient, error)
	Update(ctx context.Context, id string, patient Patient) (*Patient, error)
	Remove(ctx context.Context, id string) error
}

type Patient struct {
	Id        *primitive.ObjectID `bson:"_id,omitempty"`
	Mrn       *string             `bson:"mrn,omitempty"`
	FullName  *string             `bson:"fullName,omitempty"`
	BirthDate *string             `bson:"birthDate,omitempty"`
	Sex       *string             `bson:"sex,omitempty"`
	Email     *string             `bson:"email,omitempty"`
	Phone     *string             `bson:"phone,omitempty"`
	CreatedAt *primitive.DateTime `bson:"createdAt,omitempty"`
	UpdatedAt *primitive.DateTime `bson:"updatedAt,omitempty"`
}

type Filter struct {
	Mrn    *string
	Search *string
}
