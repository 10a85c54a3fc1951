package domain

import (
	"context"
	"io"
)

// PropertyRepository defines the persistence contract for properties.
// Room types and approval documents are keyed child collections with
// per-item writes, so two sessions editing different items never
// overwrite each other.
type PropertyRepository interface {
	Create(ctx context.Context, p Property) error
	GetByID(ctx context.Context, id string) (Property, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Property, error)
	ListAll(ctx context.Context, filter ListFilter) ([]Property, error)
	ApplyPatch(ctx context.Context, id string, patch PropertyPatch) error
	UpdateApproval(ctx context.Context, id string, approval Approval) error
	AddDocument(ctx context.Context, propertyID string, doc ApprovalDocument) error
	UpdateDocumentStatus(ctx context.Context, propertyID, documentID string, status DocumentStatus, reason string) error
	UpsertRoomType(ctx context.Context, propertyID string, rt RoomType) error
	DeleteRoomType(ctx context.Context, propertyID, roomTypeID string) error
	Delete(ctx context.Context, id string) error
}

// ListFilter holds optional criteria for listing properties.
type ListFilter struct {
	Status *ApprovalStatus
	Limit  int
	Offset int
}

// ObjectStore defines the contract for binary blob storage. Upload replaces
// any existing blob at the same key and returns a publicly resolvable URL.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// TransitionValidator checks approval state transitions against the
// transition table.
type TransitionValidator interface {
	Apply(ctx context.Context, current ApprovalStatus, event Event) (ApprovalStatus, error)
}

// EventPublisher defines the contract for emitting lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, event Event, p Property) error
}
