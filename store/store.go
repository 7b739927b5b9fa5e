package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ContextTimeout = time.Duration(20) * time.Second
)

type Pagination struct {
	Offset int
	Limit  int
}

func DefaultPagination() Pagination {
	return Pagination{
		Offset: 0,
		Limit:  10,
	}
}

func (p Pagination) WithLimit(limit int) Pagination {
	p.Limit = limit
	return p
}

func (p Pagination) WithOffset(offset int) Pagination {
	p.Offset = offset
	return p
}

type Sort struct {
	Attribute string
	Ascending bool
}

func (s *Sort) Order() int {
	if s.Ascending {
		return 1
	}
	return -1
}

func ObjectIDSFromStringArray(ids []string) []primitive.ObjectID {
	objectIds := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if objectId, err := primitive.ObjectIDFromHex(id); err == nil {
			objectIds = append(objectIds, objectId)
		}
	}
	return objectIds
}

func NewDbContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), ContextTimeout)
}
