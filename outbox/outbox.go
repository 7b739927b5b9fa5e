package outbox

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const CollectionName = "outbox"

// EventType identifies the kind of event
type EventType string

const (
	EventTypeCriticalValueNotification  EventType = "criticalValueNotification"
	EventTypeSampleRecollectionRequest  EventType = "sampleRecollectionRequested"
	EventTypeEscalationResolutionNotice EventType = "escalationResolutionNotice"
)

// Event is the common envelope for all outbox events
type Event struct {
	Id          *primitive.ObjectID `bson:"_id,omitempty"`
	EventType   EventType           `bson:"eventType"`
	CreatedTime time.Time           `bson:"createdTime"`
	Payload     bson.Raw            `bson:"payload"`
}

// CriticalValueNotificationPayload is the payload for criticalValueNotification events
type CriticalValueNotificationPayload struct {
	OrderId   string `bson:"orderId"`
	PatientId string `bson:"patientId"`
	TestCode  string `bson:"testCode"`
	Parameter string `bson:"parameter"`
	Value     string `bson:"value"`
	Kind      string `bson:"kind"`
}

// SampleRecollectionRequestPayload is the payload for sampleRecollectionRequested events
type SampleRecollectionRequestPayload struct {
	OrderId          string `bson:"orderId"`
	TestCode         string `bson:"testCode"`
	OriginalSampleId string `bson:"originalSampleId"`
	NewSampleId      string `bson:"newSampleId"`
	RequestedBy      string `bson:"requestedBy"`
}

// EscalationResolutionNoticePayload is the payload for escalationResolutionNotice events
type EscalationResolutionNoticePayload struct {
	OrderId    string `bson:"orderId"`
	TestCode   string `bson:"testCode"`
	Resolution string `bson:"resolution"`
	ResolvedBy string `bson:"resolvedBy"`
}

//go:generate go tool mockgen -source=./outbox.go -destination=./test/mock_outbox.go -package test

type Repository interface {
	Create(ctx context.Context, event Event) error
	Initialize(ctx context.Context) error
}

// NewEvent creates an Event from a typed payload
func NewEvent(eventType EventType, payload interface{}) (Event, error) {
	raw, err := bson.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("error marshaling outbox event payload: %w", err)
	}

	return Event{
		EventType:   eventType,
		CreatedTime: time.Now(),
		Payload:     bson.Raw(raw),
	}, nil
}
