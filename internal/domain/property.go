package domain

import "time"

// ApprovalStatus represents where a property sits in the verification pipeline.
type ApprovalStatus string

const (
	StatusRequiresDocuments ApprovalStatus = "requires_documents"
	StatusPending           ApprovalStatus = "pending"
	StatusUnderReview       ApprovalStatus = "under_review"
	StatusApproved          ApprovalStatus = "approved"
	StatusRejected          ApprovalStatus = "rejected"
)

// Event represents an action that triggers an approval state transition.
type Event string

const (
	// EventDocumentsSubmitted is raised by the document submission flow,
	// never directly by a caller.
	EventDocumentsSubmitted Event = "documents_submitted"

	// Staff review events.
	EventStartReview Event = "start_review"
	EventApprove     Event = "approve"
	EventReject      Event = "reject"
	EventReopen      Event = "reopen"

	// Lifecycle notifications outside the approval machine.
	EventCreated Event = "created"
	EventDeleted Event = "deleted"
)

// Transition defines a valid state change: an event moves an approval from Src to Dst.
type Transition struct {
	Event Event
	Src   ApprovalStatus
	Dst   ApprovalStatus
}

// Transitions defines all valid approval state changes. A rejected property
// only returns to pending through an explicit staff reopen; new documents
// submitted while rejected are recorded but do not move the state.
// This is domain knowledge consumed by the FSM adapter.
var Transitions = []Transition{
	{Event: EventDocumentsSubmitted, Src: StatusRequiresDocuments, Dst: StatusPending},
	{Event: EventStartReview, Src: StatusPending, Dst: StatusUnderReview},
	{Event: EventApprove, Src: StatusPending, Dst: StatusApproved},
	{Event: EventApprove, Src: StatusUnderReview, Dst: StatusApproved},
	{Event: EventReject, Src: StatusPending, Dst: StatusRejected},
	{Event: EventReject, Src: StatusUnderReview, Dst: StatusRejected},
	{Event: EventReopen, Src: StatusRejected, Dst: StatusPending},
}

// Role identifies the kind of actor performing an operation.
type Role string

const (
	RoleHost  Role = "host"
	RoleStaff Role = "staff"
	RoleGuest Role = "guest"
)

// Actor is the identity performing a mutating operation. The core never
// reads ambient session state; callers must pass the actor explicitly.
type Actor struct {
	ID   string
	Role Role
}

// DocumentType enumerates the kinds of verification documents a host can submit.
type DocumentType string

const (
	DocTypeTitleDeed           DocumentType = "title_deed"
	DocTypeUtilityBill         DocumentType = "utility_bill"
	DocTypePropertyTax         DocumentType = "property_tax"
	DocTypeLeaseAgreement      DocumentType = "lease_agreement"
	DocTypeAuthorizationLetter DocumentType = "authorization_letter"
	DocTypeOther               DocumentType = "other"
)

// DocumentStatus is the per-document review outcome.
type DocumentStatus string

const (
	DocStatusPending  DocumentStatus = "pending"
	DocStatusApproved DocumentStatus = "approved"
	DocStatusRejected DocumentStatus = "rejected"
)

// ApprovalDocument is a submitted verification document. Documents are
// append-only: they are never deleted, only reviewed.
type ApprovalDocument struct {
	ID              string
	Name            string
	Type            DocumentType
	URL             string
	Status          DocumentStatus
	RejectionReason string
	UploadedAt      time.Time
}

// DefaultRequiredDocuments is the checklist attached to every new property.
var DefaultRequiredDocuments = []string{
	string(DocTypeTitleDeed),
	string(DocTypeUtilityBill),
	string(DocTypePropertyTax),
}

// Approval is the staff-controlled verification gate on a property. Its
// status is only ever advanced through the transition table above; the
// host has no direct write access to it.
type Approval struct {
	Status             ApprovalStatus
	RequiredDocuments  []string
	SubmittedDocuments []ApprovalDocument
	RejectionReason    string
	Notes              string
	ApprovalScore      *float64
	SubmittedAt        *time.Time
	ReviewedAt         *time.Time
	ReviewedBy         string
}

// ListStatus is the host's per-room-type publish toggle.
type ListStatus string

const (
	ListStatusListed   ListStatus = "listed"
	ListStatusUnlisted ListStatus = "unlisted"
)

// RoomType is a bookable sub-unit of a property. Room types have no
// independent persistence; they live and die with their parent property.
type RoomType struct {
	ID                string
	Name              string
	Description       string
	MaxOccupancy      int
	PricePerNight     float64
	QuantityAvailable int
	Amenities         []string
	Images            []string
	ListStatus        ListStatus
	Promotion         string
}

// Property is a rentable unit listed by a host. IsListed is the host's own
// intent to publish; guests only see the property once staff approval has
// been granted on top of it.
type Property struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	Address     string
	Phone       string
	Price       float64
	Amenities   []string
	Images      []string
	IsListed    bool
	Approval    Approval
	RoomTypes   []RoomType
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PropertyDraft carries the host-supplied fields for a new property.
type PropertyDraft struct {
	Name        string
	Description string
	Address     string
	Phone       string
	Price       float64
	Amenities   []string
	Images      []string
	RoomTypes   []RoomType
}

// NewProperty creates an unlisted property awaiting its first document
// submission.
func NewProperty(id, ownerID string, draft PropertyDraft) Property {
	now := time.Now().UTC()
	return Property{
		ID:          id,
		OwnerID:     ownerID,
		Name:        draft.Name,
		Description: draft.Description,
		Address:     draft.Address,
		Phone:       draft.Phone,
		Price:       draft.Price,
		Amenities:   draft.Amenities,
		Images:      draft.Images,
		IsListed:    false,
		Approval: Approval{
			Status:            StatusRequiresDocuments,
			RequiredDocuments: append([]string(nil), DefaultRequiredDocuments...),
		},
		RoomTypes: draft.RoomTypes,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RoomTypeByID finds a room type on the property by its identifier.
func (p Property) RoomTypeByID(id string) (RoomType, bool) {
	for _, rt := range p.RoomTypes {
		if rt.ID == id {
			return rt, true
		}
	}
	return RoomType{}, false
}

// PropertyPatch is the closed set of host-updatable fields. Nil fields are
// left untouched, so concurrent edits to different fields never clobber
// each other. RoomTypes replaces the entire collection and is last-write-wins;
// per-item room writes are the safer path.
type PropertyPatch struct {
	Name        *string
	Description *string
	Address     *string
	Phone       *string
	Price       *float64
	Amenities   *[]string
	Images      *[]string
	IsListed    *bool
	RoomTypes   *[]RoomType
}

// IsZero reports whether the patch carries no changes.
func (p PropertyPatch) IsZero() bool {
	return p.Name == nil && p.Description == nil && p.Address == nil &&
		p.Phone == nil && p.Price == nil && p.Amenities == nil &&
		p.Images == nil && p.IsListed == nil && p.RoomTypes == nil
}
