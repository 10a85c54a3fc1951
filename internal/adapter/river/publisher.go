package river

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"

	"github.com/kottageio/kottage/internal/domain"
)

// Compile-time check: Publisher implements domain.EventPublisher.
var _ domain.EventPublisher = (*Publisher)(nil)

// EventJobArgs carries the data needed to process a lifecycle event
// asynchronously. River serializes this as JSON into its job queue table.
// It includes a snapshot of the property at publish time, so the worker
// never needs to query the database.
type EventJobArgs struct {
	Event          string `json:"event"`
	PropertyID     string `json:"property_id"`
	OwnerID        string `json:"owner_id"`
	Name           string `json:"name"`
	ApprovalStatus string `json:"approval_status"`
	IsListed       bool   `json:"is_listed"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (EventJobArgs) Kind() string { return "property.event" }

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Publisher implements domain.EventPublisher by enqueuing River jobs.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher backed by the given River client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Publish enqueues a lifecycle event as an async job in River.
func (p *Publisher) Publish(ctx context.Context, event domain.Event, property domain.Property) error {
	_, err := p.client.Insert(ctx, EventJobArgs{
		Event:          string(event),
		PropertyID:     property.ID,
		OwnerID:        property.OwnerID,
		Name:           property.Name,
		ApprovalStatus: string(property.Approval.Status),
		IsListed:       property.IsListed,
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueuing event job: %w", err)
	}
	return nil
}
