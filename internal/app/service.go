package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kottageio/kottage/internal/domain"
)

// ListingService orchestrates the property listing and approval lifecycle.
type ListingService struct {
	repo      domain.PropertyRepository
	objects   domain.ObjectStore
	validator domain.TransitionValidator
	publisher domain.EventPublisher
}

// NewListingService creates a service with the given adapters.
func NewListingService(repo domain.PropertyRepository, objects domain.ObjectStore, validator domain.TransitionValidator, publisher domain.EventPublisher) *ListingService {
	return &ListingService{
		repo:      repo,
		objects:   objects,
		validator: validator,
		publisher: publisher,
	}
}

// DocumentUpload is one file in a verification document submission.
type DocumentUpload struct {
	FileName    string
	ContentType string
	Type        domain.DocumentType
	Body        io.Reader
}

// ImageUpload is one file in an image upload batch.
type ImageUpload struct {
	FileName    string
	ContentType string
	Body        io.Reader
}

// Listing is a guest-facing view of a visible property.
type Listing struct {
	Property     domain.Property
	NightlyPrice float64
}

// CreateProperty persists a new property owned by the acting host. The
// property starts unlisted with approval in requires_documents.
func (s *ListingService) CreateProperty(ctx context.Context, actor domain.Actor, draft domain.PropertyDraft) (domain.Property, error) {
	if actor.Role != domain.RoleHost {
		return domain.Property{}, &domain.UnauthorizedError{ActorID: actor.ID, Action: "create a property"}
	}
	if draft.Name == "" {
		return domain.Property{}, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	for i := range draft.RoomTypes {
		if draft.RoomTypes[i].ID == "" {
			draft.RoomTypes[i].ID = newID()
		}
		if draft.RoomTypes[i].ListStatus == "" {
			draft.RoomTypes[i].ListStatus = domain.ListStatusUnlisted
		}
	}

	property := domain.NewProperty(newID(), actor.ID, draft)

	if err := s.repo.Create(ctx, property); err != nil {
		return domain.Property{}, fmt.Errorf("creating property: %w", err)
	}

	if err := s.publisher.Publish(ctx, domain.EventCreated, property); err != nil {
		return domain.Property{}, fmt.Errorf("publishing creation event: %w", err)
	}

	return property, nil
}

// GetProperty returns a property by its unique identifier.
func (s *ListingService) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	return s.repo.GetByID(ctx, id)
}

// ListOwnerProperties returns all properties owned by ownerID. Hosts may
// only list their own; staff may list anyone's.
func (s *ListingService) ListOwnerProperties(ctx context.Context, actor domain.Actor, ownerID string) ([]domain.Property, error) {
	if actor.Role != domain.RoleStaff && actor.ID != ownerID {
		return nil, &domain.UnauthorizedError{ActorID: actor.ID, Action: "list another host's properties"}
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

// ListAllProperties returns every property regardless of owner. Staff only.
func (s *ListingService) ListAllProperties(ctx context.Context, actor domain.Actor, filter domain.ListFilter) ([]domain.Property, error) {
	if actor.Role != domain.RoleStaff {
		return nil, &domain.UnauthorizedError{ActorID: actor.ID, Action: "list all properties"}
	}
	return s.repo.ListAll(ctx, filter)
}

// BrowseListings returns the guest-facing inventory: approved, host-listed
// properties with only their listed room types. Visibility is derived fresh
// on every call, never read from a stored flag.
func (s *ListingService) BrowseListings(ctx context.Context) ([]Listing, error) {
	approved := domain.StatusApproved
	properties, err := s.repo.ListAll(ctx, domain.ListFilter{Status: &approved})
	if err != nil {
		return nil, fmt.Errorf("listing approved properties: %w", err)
	}

	var listings []Listing
	for _, p := range properties {
		v := domain.EffectiveVisibility(p)
		if !v.Visible {
			continue
		}
		p.RoomTypes = v.RoomTypes
		listings = append(listings, Listing{Property: p, NightlyPrice: v.NightlyPrice})
	}
	return listings, nil
}

// UpdateProperty applies a sparse set of content-field changes. Only the
// owning host may update; the approval sub-entity is not reachable from a
// patch.
func (s *ListingService) UpdateProperty(ctx context.Context, actor domain.Actor, id string, patch domain.PropertyPatch) (domain.Property, error) {
	if patch.IsZero() {
		return domain.Property{}, &domain.ValidationError{Field: "patch", Reason: "no fields to update"}
	}

	property, err := s.requireOwner(ctx, actor, id, "update this property")
	if err != nil {
		return domain.Property{}, err
	}

	if patch.RoomTypes != nil {
		rts := *patch.RoomTypes
		for i := range rts {
			if rts[i].ID == "" {
				rts[i].ID = newID()
			}
			if rts[i].ListStatus == "" {
				rts[i].ListStatus = domain.ListStatusUnlisted
			}
		}
	}

	if err := s.repo.ApplyPatch(ctx, property.ID, patch); err != nil {
		return domain.Property{}, fmt.Errorf("updating property: %w", err)
	}

	return s.repo.GetByID(ctx, id)
}

// DeleteProperty removes a property and everything embedded in it. Only the
// owning host may delete.
func (s *ListingService) DeleteProperty(ctx context.Context, actor domain.Actor, id string) error {
	property, err := s.requireOwner(ctx, actor, id, "delete this property")
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting property: %w", err)
	}

	if err := s.publisher.Publish(ctx, domain.EventDeleted, property); err != nil {
		return fmt.Errorf("publishing deletion event: %w", err)
	}
	return nil
}

// UpsertRoomType creates or replaces a single room type. This is the safe
// per-item write path; concurrent edits to different rooms never collide.
func (s *ListingService) UpsertRoomType(ctx context.Context, actor domain.Actor, propertyID string, rt domain.RoomType) (domain.Property, error) {
	if rt.Name == "" {
		return domain.Property{}, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	if _, err := s.requireOwner(ctx, actor, propertyID, "edit room types"); err != nil {
		return domain.Property{}, err
	}

	if rt.ID == "" {
		rt.ID = newID()
	}
	if rt.ListStatus == "" {
		rt.ListStatus = domain.ListStatusUnlisted
	}

	if err := s.repo.UpsertRoomType(ctx, propertyID, rt); err != nil {
		return domain.Property{}, fmt.Errorf("upserting room type: %w", err)
	}

	return s.repo.GetByID(ctx, propertyID)
}

// DeleteRoomType removes a single room type from the property.
func (s *ListingService) DeleteRoomType(ctx context.Context, actor domain.Actor, propertyID, roomTypeID string) (domain.Property, error) {
	if _, err := s.requireOwner(ctx, actor, propertyID, "edit room types"); err != nil {
		return domain.Property{}, err
	}

	if err := s.repo.DeleteRoomType(ctx, propertyID, roomTypeID); err != nil {
		return domain.Property{}, err
	}

	return s.repo.GetByID(ctx, propertyID)
}

// SubmitDocuments uploads verification documents and registers them on the
// approval record, one write per document so a failure never rolls back
// siblings. When at least one document lands while the approval still sits
// in requires_documents, the status is promoted to pending. Submitting while
// rejected records the documents but leaves the status for staff to reopen.
//
// On partial failure the updated property is returned together with a
// *domain.PartialUploadError naming the files to retry.
func (s *ListingService) SubmitDocuments(ctx context.Context, actor domain.Actor, propertyID string, uploads []DocumentUpload) (domain.Property, error) {
	property, err := s.requireOwner(ctx, actor, propertyID, "submit documents")
	if err != nil {
		return domain.Property{}, err
	}

	status := property.Approval.Status
	if status != domain.StatusRequiresDocuments && status != domain.StatusRejected {
		return domain.Property{}, &domain.TransitionError{Event: domain.EventDocumentsSubmitted, Current: status}
	}

	if len(uploads) == 0 {
		return property, nil
	}

	now := time.Now().UTC()
	batch := now.UnixMilli()
	var failed []domain.FailedUpload
	succeeded := 0

	for i, up := range uploads {
		docType := up.Type
		if docType == "" {
			docType = domain.DocTypeOther
		}

		key := fmt.Sprintf("properties/%s/documents/%s", propertyID, up.FileName)
		url, err := s.objects.Upload(ctx, key, up.ContentType, up.Body)
		if err != nil {
			failed = append(failed, domain.FailedUpload{FileName: up.FileName, Err: err})
			continue
		}

		doc := domain.ApprovalDocument{
			ID:         fmt.Sprintf("doc_%d_%d", i, batch),
			Name:       up.FileName,
			Type:       docType,
			URL:        url,
			Status:     domain.DocStatusPending,
			UploadedAt: now,
		}
		if err := s.repo.AddDocument(ctx, propertyID, doc); err != nil {
			failed = append(failed, domain.FailedUpload{FileName: up.FileName, Err: err})
			continue
		}
		succeeded++
	}

	// Even a partial batch is evidence; promote out of requires_documents
	// with whatever landed.
	if succeeded > 0 && status == domain.StatusRequiresDocuments {
		newStatus, err := s.validator.Apply(ctx, status, domain.EventDocumentsSubmitted)
		if err != nil {
			return domain.Property{}, err
		}

		approval := property.Approval
		approval.Status = newStatus
		approval.SubmittedAt = &now
		if err := s.repo.UpdateApproval(ctx, propertyID, approval); err != nil {
			return domain.Property{}, fmt.Errorf("promoting approval status: %w", err)
		}

		property.Approval = approval
		if err := s.publisher.Publish(ctx, domain.EventDocumentsSubmitted, property); err != nil {
			return domain.Property{}, fmt.Errorf("publishing submission event: %w", err)
		}
	}

	updated, err := s.repo.GetByID(ctx, propertyID)
	if err != nil {
		return domain.Property{}, err
	}

	if len(failed) > 0 {
		return updated, &domain.PartialUploadError{Failed: failed, Uploaded: succeeded}
	}
	return updated, nil
}

// eventForTarget maps a requested target status to the review event that
// produces it. Targets with no producing event are unreachable by design.
func eventForTarget(target domain.ApprovalStatus) (domain.Event, bool) {
	switch target {
	case domain.StatusUnderReview:
		return domain.EventStartReview, true
	case domain.StatusApproved:
		return domain.EventApprove, true
	case domain.StatusRejected:
		return domain.EventReject, true
	case domain.StatusPending:
		return domain.EventReopen, true
	default:
		return "", false
	}
}

// Review moves a property's approval to the target status on behalf of a
// staff actor. Rejections require a reason; all checks run before any write.
func (s *ListingService) Review(ctx context.Context, actor domain.Actor, propertyID string, target domain.ApprovalStatus, reason, notes string) (domain.Property, error) {
	if actor.Role != domain.RoleStaff {
		return domain.Property{}, &domain.UnauthorizedError{ActorID: actor.ID, Action: "review property approvals"}
	}
	if target == domain.StatusRejected && reason == "" {
		return domain.Property{}, &domain.ValidationError{Field: "reason", Reason: "required when rejecting"}
	}

	property, err := s.repo.GetByID(ctx, propertyID)
	if err != nil {
		return domain.Property{}, err
	}

	event, ok := eventForTarget(target)
	if !ok {
		return domain.Property{}, &domain.TransitionError{Event: domain.Event(target), Current: property.Approval.Status}
	}

	newStatus, err := s.validator.Apply(ctx, property.Approval.Status, event)
	if err != nil {
		return domain.Property{}, err
	}

	now := time.Now().UTC()
	approval := property.Approval
	approval.Status = newStatus
	approval.ReviewedAt = &now
	approval.ReviewedBy = actor.ID
	if notes != "" {
		approval.Notes = notes
	}
	if newStatus == domain.StatusRejected {
		approval.RejectionReason = reason
	}

	if err := s.repo.UpdateApproval(ctx, propertyID, approval); err != nil {
		return domain.Property{}, fmt.Errorf("recording review: %w", err)
	}

	property.Approval = approval
	if err := s.publisher.Publish(ctx, event, property); err != nil {
		return domain.Property{}, fmt.Errorf("publishing event %q: %w", event, err)
	}

	return s.repo.GetByID(ctx, propertyID)
}

// ReviewDocument records a staff verdict on a single submitted document.
func (s *ListingService) ReviewDocument(ctx context.Context, actor domain.Actor, propertyID, documentID string, status domain.DocumentStatus, reason string) (domain.Property, error) {
	if actor.Role != domain.RoleStaff {
		return domain.Property{}, &domain.UnauthorizedError{ActorID: actor.ID, Action: "review documents"}
	}
	if status != domain.DocStatusApproved && status != domain.DocStatusRejected {
		return domain.Property{}, &domain.ValidationError{Field: "status", Reason: "must be approved or rejected"}
	}
	if status == domain.DocStatusRejected && reason == "" {
		return domain.Property{}, &domain.ValidationError{Field: "reason", Reason: "required when rejecting"}
	}

	if err := s.repo.UpdateDocumentStatus(ctx, propertyID, documentID, status, reason); err != nil {
		return domain.Property{}, err
	}

	return s.repo.GetByID(ctx, propertyID)
}

// UploadPropertyImages uploads property gallery images and returns their
// public URLs. The caller merges the URLs into the property's images field
// via UpdateProperty.
func (s *ListingService) UploadPropertyImages(ctx context.Context, actor domain.Actor, propertyID string, files []ImageUpload) ([]string, error) {
	if _, err := s.requireOwner(ctx, actor, propertyID, "upload images"); err != nil {
		return nil, err
	}

	prefix := fmt.Sprintf("properties/%s/images", propertyID)
	return s.uploadAll(ctx, prefix, files)
}

// UploadRoomImages uploads images for a single room type and returns their
// public URLs.
func (s *ListingService) UploadRoomImages(ctx context.Context, actor domain.Actor, propertyID, roomTypeID string, files []ImageUpload) ([]string, error) {
	property, err := s.requireOwner(ctx, actor, propertyID, "upload images")
	if err != nil {
		return nil, err
	}

	if _, ok := property.RoomTypeByID(roomTypeID); !ok {
		return nil, domain.ErrRoomTypeNotFound
	}

	prefix := fmt.Sprintf("properties/%s/room-types/%s/images", propertyID, roomTypeID)
	return s.uploadAll(ctx, prefix, files)
}

// uploadAll uploads each file under prefix. Successes are returned even when
// some files fail; the error names the files to retry.
func (s *ListingService) uploadAll(ctx context.Context, prefix string, files []ImageUpload) ([]string, error) {
	var urls []string
	var failed []domain.FailedUpload

	for _, f := range files {
		url, err := s.objects.Upload(ctx, prefix+"/"+f.FileName, f.ContentType, f.Body)
		if err != nil {
			failed = append(failed, domain.FailedUpload{FileName: f.FileName, Err: err})
			continue
		}
		urls = append(urls, url)
	}

	if len(failed) > 0 {
		return urls, &domain.PartialUploadError{Failed: failed, Uploaded: len(urls)}
	}
	return urls, nil
}

// requireOwner loads the property and verifies the actor owns it.
func (s *ListingService) requireOwner(ctx context.Context, actor domain.Actor, propertyID, action string) (domain.Property, error) {
	property, err := s.repo.GetByID(ctx, propertyID)
	if err != nil {
		return domain.Property{}, err
	}
	if property.OwnerID != actor.ID {
		return domain.Property{}, &domain.UnauthorizedError{ActorID: actor.ID, Action: action}
	}
	return property, nil
}
