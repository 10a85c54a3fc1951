package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kottageio/kottage/internal/domain"
)

const tracerName = "github.com/kottageio/kottage/internal/adapter/otel"

// TracingRepository wraps a domain.PropertyRepository with OpenTelemetry
// tracing. Each method creates a span with semantic attributes and records
// errors.
type TracingRepository struct {
	next   domain.PropertyRepository
	tracer trace.Tracer
}

// Compile-time check: TracingRepository implements domain.PropertyRepository.
var _ domain.PropertyRepository = (*TracingRepository)(nil)

// NewTracingRepository creates a tracing decorator around the given repository.
func NewTracingRepository(next domain.PropertyRepository) *TracingRepository {
	return &TracingRepository{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (r *TracingRepository) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func record(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

func (r *TracingRepository) Create(ctx context.Context, p domain.Property) error {
	ctx, span := r.span(ctx, "PropertyRepository.Create",
		attribute.String("property.id", p.ID),
		attribute.String("property.owner_id", p.OwnerID),
	)
	defer span.End()

	err := r.next.Create(ctx, p)
	record(span, err)
	return err
}

func (r *TracingRepository) GetByID(ctx context.Context, id string) (domain.Property, error) {
	ctx, span := r.span(ctx, "PropertyRepository.GetByID",
		attribute.String("property.id", id),
	)
	defer span.End()

	p, err := r.next.GetByID(ctx, id)
	record(span, err)
	return p, err
}

func (r *TracingRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Property, error) {
	ctx, span := r.span(ctx, "PropertyRepository.ListByOwner",
		attribute.String("property.owner_id", ownerID),
	)
	defer span.End()

	properties, err := r.next.ListByOwner(ctx, ownerID)
	record(span, err)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(properties)))
	}
	return properties, err
}

func (r *TracingRepository) ListAll(ctx context.Context, filter domain.ListFilter) ([]domain.Property, error) {
	ctx, span := r.span(ctx, "PropertyRepository.ListAll",
		attribute.Int("filter.limit", filter.Limit),
		attribute.Int("filter.offset", filter.Offset),
	)
	defer span.End()

	if filter.Status != nil {
		span.SetAttributes(attribute.String("filter.status", string(*filter.Status)))
	}

	properties, err := r.next.ListAll(ctx, filter)
	record(span, err)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(properties)))
	}
	return properties, err
}

func (r *TracingRepository) ApplyPatch(ctx context.Context, id string, patch domain.PropertyPatch) error {
	ctx, span := r.span(ctx, "PropertyRepository.ApplyPatch",
		attribute.String("property.id", id),
		attribute.Bool("patch.room_types", patch.RoomTypes != nil),
	)
	defer span.End()

	err := r.next.ApplyPatch(ctx, id, patch)
	record(span, err)
	return err
}

func (r *TracingRepository) UpdateApproval(ctx context.Context, id string, approval domain.Approval) error {
	ctx, span := r.span(ctx, "PropertyRepository.UpdateApproval",
		attribute.String("property.id", id),
		attribute.String("approval.status", string(approval.Status)),
	)
	defer span.End()

	err := r.next.UpdateApproval(ctx, id, approval)
	record(span, err)
	return err
}

func (r *TracingRepository) AddDocument(ctx context.Context, propertyID string, doc domain.ApprovalDocument) error {
	ctx, span := r.span(ctx, "PropertyRepository.AddDocument",
		attribute.String("property.id", propertyID),
		attribute.String("document.id", doc.ID),
		attribute.String("document.type", string(doc.Type)),
	)
	defer span.End()

	err := r.next.AddDocument(ctx, propertyID, doc)
	record(span, err)
	return err
}

func (r *TracingRepository) UpdateDocumentStatus(ctx context.Context, propertyID, documentID string, status domain.DocumentStatus, reason string) error {
	ctx, span := r.span(ctx, "PropertyRepository.UpdateDocumentStatus",
		attribute.String("property.id", propertyID),
		attribute.String("document.id", documentID),
		attribute.String("document.status", string(status)),
	)
	defer span.End()

	err := r.next.UpdateDocumentStatus(ctx, propertyID, documentID, status, reason)
	record(span, err)
	return err
}

func (r *TracingRepository) UpsertRoomType(ctx context.Context, propertyID string, rt domain.RoomType) error {
	ctx, span := r.span(ctx, "PropertyRepository.UpsertRoomType",
		attribute.String("property.id", propertyID),
		attribute.String("room_type.id", rt.ID),
	)
	defer span.End()

	err := r.next.UpsertRoomType(ctx, propertyID, rt)
	record(span, err)
	return err
}

func (r *TracingRepository) DeleteRoomType(ctx context.Context, propertyID, roomTypeID string) error {
	ctx, span := r.span(ctx, "PropertyRepository.DeleteRoomType",
		attribute.String("property.id", propertyID),
		attribute.String("room_type.id", roomTypeID),
	)
	defer span.End()

	err := r.next.DeleteRoomType(ctx, propertyID, roomTypeID)
	record(span, err)
	return err
}

func (r *TracingRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.span(ctx, "PropertyRepository.Delete",
		attribute.String("property.id", id),
	)
	defer span.End()

	err := r.next.Delete(ctx, id)
	record(span, err)
	return err
}
