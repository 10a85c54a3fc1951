package http

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/kottageio/kottage/internal/app"
	"github.com/kottageio/kottage/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

// ActorParams carries the explicit actor identity on every mutating request.
// The core never reads ambient session state; the calling layer supplies
// these headers.
type ActorParams struct {
	ActorID   string `header:"X-Actor-Id" doc:"Acting user ID"`
	ActorRole string `header:"X-Actor-Role" doc:"Acting user role (host, staff, guest)" enum:"host,staff,guest"`
}

func (p ActorParams) actor() domain.Actor {
	return domain.Actor{ID: p.ActorID, Role: domain.Role(p.ActorRole)}
}

// --- Response shapes ---

// DocumentResponse is the API representation of a submitted verification document.
type DocumentResponse struct {
	ID              string `json:"id" doc:"Document identifier (unique per submission batch)"`
	Name            string `json:"name" doc:"Original file name"`
	Type            string `json:"type" doc:"Document type"`
	URL             string `json:"url" doc:"Public URL of the uploaded file"`
	Status          string `json:"status" doc:"Review status"`
	RejectionReason string `json:"rejection_reason,omitempty" doc:"Why the document was rejected"`
	UploadedAt      string `json:"uploaded_at" doc:"Upload timestamp (ISO 8601)"`
}

// ApprovalResponse is the API representation of the staff verification gate.
type ApprovalResponse struct {
	Status             string             `json:"status" doc:"Approval pipeline state"`
	RequiredDocuments  []string           `json:"required_documents" doc:"Checklist set at creation"`
	SubmittedDocuments []DocumentResponse `json:"submitted_documents" doc:"Append-only document trail"`
	RejectionReason    string             `json:"rejection_reason,omitempty" doc:"Why the property was rejected"`
	Notes              string             `json:"notes,omitempty" doc:"Staff notes"`
	ApprovalScore      *float64           `json:"approval_score,omitempty" doc:"Externally computed score"`
	SubmittedAt        string             `json:"submitted_at,omitempty" doc:"First document submission timestamp"`
	ReviewedAt         string             `json:"reviewed_at,omitempty" doc:"Last review timestamp"`
	ReviewedBy         string             `json:"reviewed_by,omitempty" doc:"Staff member who reviewed"`
}

// RoomTypeResponse is the API representation of a room type.
type RoomTypeResponse struct {
	ID                string   `json:"id" doc:"Room type identifier"`
	Name              string   `json:"name" doc:"Display name"`
	Description       string   `json:"description,omitempty" doc:"Description"`
	MaxOccupancy      int      `json:"max_occupancy" doc:"Maximum guests"`
	PricePerNight     float64  `json:"price_per_night" doc:"Nightly price"`
	QuantityAvailable int      `json:"quantity_available" doc:"Units available"`
	Amenities         []string `json:"amenities,omitempty" doc:"Amenities"`
	Images            []string `json:"images,omitempty" doc:"Image URLs"`
	ListStatus        string   `json:"list_status" doc:"Host publish toggle (listed, unlisted)"`
	Promotion         string   `json:"promotion,omitempty" doc:"Active promotion"`
}

// PropertyResponse is the API representation of a property.
type PropertyResponse struct {
	ID          string             `json:"id" doc:"Unique identifier"`
	OwnerID     string             `json:"owner_id" doc:"Owning host"`
	Name        string             `json:"name" doc:"Display name"`
	Description string             `json:"description,omitempty" doc:"Description"`
	Address     string             `json:"address,omitempty" doc:"Street address"`
	Phone       string             `json:"phone,omitempty" doc:"Contact phone"`
	Price       float64            `json:"price" doc:"Whole-property nightly price"`
	Amenities   []string           `json:"amenities,omitempty" doc:"Amenities"`
	Images      []string           `json:"images,omitempty" doc:"Image URLs"`
	IsListed    bool               `json:"is_listed" doc:"Host's publish intent"`
	Approval    ApprovalResponse   `json:"approval" doc:"Staff verification gate"`
	RoomTypes   []RoomTypeResponse `json:"room_types,omitempty" doc:"Room types"`
	CreatedAt   string             `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt   string             `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

// ListingResponse is the guest-facing view of a visible property.
type ListingResponse struct {
	Property     PropertyResponse `json:"property" doc:"The visible property, room types filtered to listed"`
	NightlyPrice float64          `json:"nightly_price" doc:"Lowest listed room price, or the property price"`
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeFormat)
}

func toDocumentResponse(d domain.ApprovalDocument) DocumentResponse {
	return DocumentResponse{
		ID:              d.ID,
		Name:            d.Name,
		Type:            string(d.Type),
		URL:             d.URL,
		Status:          string(d.Status),
		RejectionReason: d.RejectionReason,
		UploadedAt:      d.UploadedAt.Format(timeFormat),
	}
}

func toRoomTypeResponse(rt domain.RoomType) RoomTypeResponse {
	return RoomTypeResponse{
		ID:                rt.ID,
		Name:              rt.Name,
		Description:       rt.Description,
		MaxOccupancy:      rt.MaxOccupancy,
		PricePerNight:     rt.PricePerNight,
		QuantityAvailable: rt.QuantityAvailable,
		Amenities:         rt.Amenities,
		Images:            rt.Images,
		ListStatus:        string(rt.ListStatus),
		Promotion:         rt.Promotion,
	}
}

func toPropertyResponse(p domain.Property) PropertyResponse {
	docs := make([]DocumentResponse, len(p.Approval.SubmittedDocuments))
	for i, d := range p.Approval.SubmittedDocuments {
		docs[i] = toDocumentResponse(d)
	}
	rooms := make([]RoomTypeResponse, len(p.RoomTypes))
	for i, rt := range p.RoomTypes {
		rooms[i] = toRoomTypeResponse(rt)
	}

	return PropertyResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Description: p.Description,
		Address:     p.Address,
		Phone:       p.Phone,
		Price:       p.Price,
		Amenities:   p.Amenities,
		Images:      p.Images,
		IsListed:    p.IsListed,
		Approval: ApprovalResponse{
			Status:             string(p.Approval.Status),
			RequiredDocuments:  p.Approval.RequiredDocuments,
			SubmittedDocuments: docs,
			RejectionReason:    p.Approval.RejectionReason,
			Notes:              p.Approval.Notes,
			ApprovalScore:      p.Approval.ApprovalScore,
			SubmittedAt:        formatTimePtr(p.Approval.SubmittedAt),
			ReviewedAt:         formatTimePtr(p.Approval.ReviewedAt),
			ReviewedBy:         p.Approval.ReviewedBy,
		},
		RoomTypes: rooms,
		CreatedAt: p.CreatedAt.Format(timeFormat),
		UpdatedAt: p.UpdatedAt.Format(timeFormat),
	}
}

// --- Create Property ---

type RoomTypeBody struct {
	ID                string   `json:"id,omitempty" doc:"Identifier; generated when empty"`
	Name              string   `json:"name" minLength:"1" maxLength:"255" doc:"Display name"`
	Description       string   `json:"description,omitempty" doc:"Description"`
	MaxOccupancy      int      `json:"max_occupancy,omitempty" minimum:"0" doc:"Maximum guests"`
	PricePerNight     float64  `json:"price_per_night,omitempty" minimum:"0" doc:"Nightly price"`
	QuantityAvailable int      `json:"quantity_available,omitempty" minimum:"0" doc:"Units available"`
	Amenities         []string `json:"amenities,omitempty" doc:"Amenities"`
	Images            []string `json:"images,omitempty" doc:"Image URLs"`
	ListStatus        string   `json:"list_status,omitempty" enum:"listed,unlisted" doc:"Publish toggle"`
	Promotion         string   `json:"promotion,omitempty" doc:"Active promotion"`
}

func (b RoomTypeBody) toDomain() domain.RoomType {
	return domain.RoomType{
		ID:                b.ID,
		Name:              b.Name,
		Description:       b.Description,
		MaxOccupancy:      b.MaxOccupancy,
		PricePerNight:     b.PricePerNight,
		QuantityAvailable: b.QuantityAvailable,
		Amenities:         b.Amenities,
		Images:            b.Images,
		ListStatus:        domain.ListStatus(b.ListStatus),
		Promotion:         b.Promotion,
	}
}

type CreatePropertyInput struct {
	ActorParams
	Body struct {
		Name        string         `json:"name" minLength:"1" maxLength:"255" doc:"Display name"`
		Description string         `json:"description,omitempty" doc:"Description"`
		Address     string         `json:"address,omitempty" doc:"Street address"`
		Phone       string         `json:"phone,omitempty" doc:"Contact phone"`
		Price       float64        `json:"price,omitempty" minimum:"0" doc:"Whole-property nightly price"`
		Amenities   []string       `json:"amenities,omitempty" doc:"Amenities"`
		Images      []string       `json:"images,omitempty" doc:"Image URLs"`
		RoomTypes   []RoomTypeBody `json:"room_types,omitempty" doc:"Initial room types"`
	}
}

type PropertyOutput struct {
	Body PropertyResponse
}

// --- Get / List ---

type GetPropertyInput struct {
	ID string `path:"id" doc:"Property ID"`
}

type ListPropertiesInput struct {
	ActorParams
	OwnerID string `query:"owner_id" required:"false" doc:"Filter to one host's properties"`
	Status  string `query:"status" required:"false" doc:"Filter by approval status" enum:",requires_documents,pending,under_review,approved,rejected"`
	Limit   int    `query:"limit" required:"false" default:"50" doc:"Max results"`
	Offset  int    `query:"offset" required:"false" default:"0" doc:"Pagination offset"`
}

type ListPropertiesOutput struct {
	Body []PropertyResponse
}

// --- Update / Delete ---

type UpdatePropertyInput struct {
	ActorParams
	ID   string `path:"id" doc:"Property ID"`
	Body struct {
		Name        *string         `json:"name,omitempty" doc:"Display name"`
		Description *string         `json:"description,omitempty" doc:"Description"`
		Address     *string         `json:"address,omitempty" doc:"Street address"`
		Phone       *string         `json:"phone,omitempty" doc:"Contact phone"`
		Price       *float64        `json:"price,omitempty" minimum:"0" doc:"Whole-property nightly price"`
		Amenities   *[]string       `json:"amenities,omitempty" doc:"Amenities"`
		Images      *[]string       `json:"images,omitempty" doc:"Image URLs"`
		IsListed    *bool           `json:"is_listed,omitempty" doc:"Publish intent"`
		RoomTypes   *[]RoomTypeBody `json:"room_types,omitempty" doc:"Full room type replacement (last write wins; prefer per-room endpoints)"`
	}
}

type DeletePropertyInput struct {
	ActorParams
	ID string `path:"id" doc:"Property ID"`
}

type DeletePropertyOutput struct{}

// --- Room types ---

type UpsertRoomTypeInput struct {
	ActorParams
	ID         string       `path:"id" doc:"Property ID"`
	RoomTypeID string       `path:"roomTypeId" doc:"Room type ID"`
	Body       RoomTypeBody `doc:"Room type fields"`
}

type DeleteRoomTypeInput struct {
	ActorParams
	ID         string `path:"id" doc:"Property ID"`
	RoomTypeID string `path:"roomTypeId" doc:"Room type ID"`
}

// --- Documents ---

type SubmitDocumentsInput struct {
	ActorParams
	ID      string `path:"id" doc:"Property ID"`
	RawBody multipart.Form
}

type ReviewDocumentInput struct {
	ActorParams
	ID         string `path:"id" doc:"Property ID"`
	DocumentID string `path:"documentId" doc:"Document ID"`
	Body       struct {
		Status string `json:"status" enum:"approved,rejected" doc:"Review verdict"`
		Reason string `json:"reason,omitempty" doc:"Required when rejecting"`
	}
}

// --- Approval review ---

type ReviewInput struct {
	ActorParams
	ID   string `path:"id" doc:"Property ID"`
	Body struct {
		Status string `json:"status" enum:"pending,under_review,approved,rejected" doc:"Target approval status"`
		Reason string `json:"reason,omitempty" doc:"Required when rejecting"`
		Notes  string `json:"notes,omitempty" doc:"Staff notes"`
	}
}

// --- Images ---

type UploadPropertyImagesInput struct {
	ActorParams
	ID      string `path:"id" doc:"Property ID"`
	RawBody multipart.Form
}

type UploadRoomImagesInput struct {
	ActorParams
	ID         string `path:"id" doc:"Property ID"`
	RoomTypeID string `path:"roomTypeId" doc:"Room type ID"`
	RawBody    multipart.Form
}

type UploadImagesOutput struct {
	Body struct {
		URLs []string `json:"urls" doc:"Public URLs of the uploaded images"`
	}
}

// --- Listings ---

type BrowseListingsInput struct{}

type BrowseListingsOutput struct {
	Body []ListingResponse
}

// Register adds all property API routes to the Huma API.
func Register(api huma.API, svc *app.ListingService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-property",
		Method:      http.MethodPost,
		Path:        "/api/v1/properties",
		Summary:     "Create a new property",
		Tags:        []string{"Properties"},
	}, func(ctx context.Context, input *CreatePropertyInput) (*PropertyOutput, error) {
		rooms := make([]domain.RoomType, len(input.Body.RoomTypes))
		for i, rt := range input.Body.RoomTypes {
			rooms[i] = rt.toDomain()
		}

		property, err := svc.CreateProperty(ctx, input.actor(), domain.PropertyDraft{
			Name:        input.Body.Name,
			Description: input.Body.Description,
			Address:     input.Body.Address,
			Phone:       input.Body.Phone,
			Price:       input.Body.Price,
			Amenities:   input.Body.Amenities,
			Images:      input.Body.Images,
			RoomTypes:   rooms,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &PropertyOutput{Body: toPropertyResponse(property)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-property",
		Method:      http.MethodGet,
		Path:        "/api/v1/properties/{id}",
		Summary:     "Get a property by ID",
		Tags:        []string{"Properties"},
	}, func(ctx context.Context, input *GetPropertyInput) (*PropertyOutput, error) {
		property, err := svc.GetProperty(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &PropertyOutput{Body: toPropertyResponse(property)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-properties",
		Method:      http.MethodGet,
		Path:        "/api/v1/properties",
		Summary:     "List properties (a host's own, or all for staff)",
		Tags:        []string{"Properties"},
	}, func(ctx context.Context, input *ListPropertiesInput) (*ListPropertiesOutput, error) {
		var properties []domain.Property
		var err error

		if input.OwnerID != "" {
			properties, err = svc.ListOwnerProperties(ctx, input.actor(), input.OwnerID)
		} else {
			filter := domain.ListFilter{Limit: input.Limit, Offset: input.Offset}
			if input.Status != "" {
				s := domain.ApprovalStatus(input.Status)
				filter.Status = &s
			}
			properties, err = svc.ListAllProperties(ctx, input.actor(), filter)
		}
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]PropertyResponse, len(properties))
		for i, p := range properties {
			resp[i] = toPropertyResponse(p)
		}
		return &ListPropertiesOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-property",
		Method:      http.MethodPatch,
		Path:        "/api/v1/properties/{id}",
		Summary:     "Apply a partial update to a property",
		Tags:        []string{"Properties"},
	}, func(ctx context.Context, input *UpdatePropertyInput) (*PropertyOutput, error) {
		patch := domain.PropertyPatch{
			Name:        input.Body.Name,
			Description: input.Body.Description,
			Address:     input.Body.Address,
			Phone:       input.Body.Phone,
			Price:       input.Body.Price,
			Amenities:   input.Body.Amenities,
			Images:      input.Body.Images,
			IsListed:    input.Body.IsListed,
		}
		if input.Body.RoomTypes != nil {
			rooms := make([]domain.RoomType, len(*input.Body.RoomTypes))
			for i, rt := range *input.Body.RoomTypes {
				rooms[i] = rt.toDomain()
			}
			patch.RoomTypes = &rooms
		}

		property, err := svc.UpdateProperty(ctx, input.actor(), input.ID, patch)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &PropertyOutput{Body: toPropertyResponse(property)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-property",
		Method:      http.MethodDelete,
		Path:        "/api/v1/properties/{id}",
		Summary:     "Delete a property",
		Tags:        []string{"Properties"},
	}, func(ctx context.Context, input *DeletePropertyInput) (*DeletePropertyOutput, error) {
		if err := svc.DeleteProperty(ctx, input.actor(), input.ID); err != nil {
			return nil, toHumaError(err)
		}
		return &DeletePropertyOutput{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "upsert-room-type",
		Method:      http.MethodPut,
		Path:        "/api/v1/properties/{id}/room-types/{roomTypeId}",
		Summary:     "Create or replace a single room type",
		Tags:        []string{"Room types"},
	}, func(ctx context.Context, input *UpsertRoomTypeInput) (*PropertyOutput, error) {
		rt := input.Body.toDomain()
		rt.ID = input.RoomTypeID

		property, err := svc.UpsertRoomType(ctx, input.actor(), input.ID, rt)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &PropertyOutput{Body: toPropertyResponse(property)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-room-type",
		Method:      http.MethodDelete,
		Path:        "/api/v1/properties/{id}/room-types/{roomTypeId}",
		Summary:     "Delete a single room type",
		Tags:        []string{"Room types"},
	}, func(ctx context.Context, input *DeleteRoomTypeInput) (*PropertyOutput, error) {
		property, err := svc.DeleteRoomType(ctx, input.actor(), input.ID, input.RoomTypeID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &PropertyOutput{Body: toPropertyResponse(property)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "submit-documents",
		Method:      http.MethodPost,
		Path:        "/api/v1/properties/{id}/documents",
		Summary:     "Submit verification documents",
		Description: "Multipart form: one or more 'files' parts, with parallel 'types' values naming each document type.",
		Tags:        []string{"Approval"},
	}, func(ctx context.Context, input *SubmitDocumentsInput) (*PropertyOutput, error) {
		uploads, err := documentUploads(input.RawBody)
		if err != nil {
			return nil, toHumaError(err)
		}
		defer closeUploads(uploads)

		property, err := svc.SubmitDocuments(ctx, input.actor(), input.ID, uploads)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &PropertyOutput{Body: toPropertyResponse(property)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "review-property",
		Method:      http.MethodPost,
		Path:        "/api/v1/properties/{id}/approval",
		Summary:     "Move a property's approval to a new status (staff)",
		Tags:        []string{"Approval"},
	}, func(ctx context.Context, input *ReviewInput) (*PropertyOutput, error) {
		property, err := svc.Review(ctx, input.actor(), input.ID,
			domain.ApprovalStatus(input.Body.Status), input.Body.Reason, input.Body.Notes)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &PropertyOutput{Body: toPropertyResponse(property)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "review-document",
		Method:      http.MethodPost,
		Path:        "/api/v1/properties/{id}/documents/{documentId}/review",
		Summary:     "Record a verdict on a single document (staff)",
		Tags:        []string{"Approval"},
	}, func(ctx context.Context, input *ReviewDocumentInput) (*PropertyOutput, error) {
		property, err := svc.ReviewDocument(ctx, input.actor(), input.ID, input.DocumentID,
			domain.DocumentStatus(input.Body.Status), input.Body.Reason)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &PropertyOutput{Body: toPropertyResponse(property)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "upload-property-images",
		Method:      http.MethodPost,
		Path:        "/api/v1/properties/{id}/images",
		Summary:     "Upload property images",
		Description: "Returns URLs only; merge them into the property's images field via update-property.",
		Tags:        []string{"Images"},
	}, func(ctx context.Context, input *UploadPropertyImagesInput) (*UploadImagesOutput, error) {
		files, err := imageUploads(input.RawBody)
		if err != nil {
			return nil, toHumaError(err)
		}
		defer closeImages(files)

		urls, err := svc.UploadPropertyImages(ctx, input.actor(), input.ID, files)
		if err != nil {
			return nil, toHumaError(err)
		}

		out := &UploadImagesOutput{}
		out.Body.URLs = urls
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "upload-room-images",
		Method:      http.MethodPost,
		Path:        "/api/v1/properties/{id}/room-types/{roomTypeId}/images",
		Summary:     "Upload room type images",
		Tags:        []string{"Images"},
	}, func(ctx context.Context, input *UploadRoomImagesInput) (*UploadImagesOutput, error) {
		files, err := imageUploads(input.RawBody)
		if err != nil {
			return nil, toHumaError(err)
		}
		defer closeImages(files)

		urls, err := svc.UploadRoomImages(ctx, input.actor(), input.ID, input.RoomTypeID, files)
		if err != nil {
			return nil, toHumaError(err)
		}

		out := &UploadImagesOutput{}
		out.Body.URLs = urls
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "browse-listings",
		Method:      http.MethodGet,
		Path:        "/api/v1/listings",
		Summary:     "Browse guest-visible listings",
		Tags:        []string{"Listings"},
	}, func(ctx context.Context, _ *BrowseListingsInput) (*BrowseListingsOutput, error) {
		listings, err := svc.BrowseListings(ctx)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]ListingResponse, len(listings))
		for i, l := range listings {
			resp[i] = ListingResponse{
				Property:     toPropertyResponse(l.Property),
				NightlyPrice: l.NightlyPrice,
			}
		}
		return &BrowseListingsOutput{Body: resp}, nil
	})
}

// documentUploads extracts document files and their parallel type values
// from a multipart form.
func documentUploads(form multipart.Form) ([]app.DocumentUpload, error) {
	headers := form.File["files"]
	types := form.Value["types"]

	uploads := make([]app.DocumentUpload, 0, len(headers))
	for i, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, &domain.ValidationError{Field: "files", Reason: "unreadable file " + fh.Filename}
		}

		docType := domain.DocTypeOther
		if i < len(types) {
			docType = domain.DocumentType(types[i])
		}

		uploads = append(uploads, app.DocumentUpload{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Type:        docType,
			Body:        f,
		})
	}
	return uploads, nil
}

func closeUploads(uploads []app.DocumentUpload) {
	for _, u := range uploads {
		if c, ok := u.Body.(multipart.File); ok {
			c.Close()
		}
	}
}

// imageUploads extracts image files from a multipart form.
func imageUploads(form multipart.Form) ([]app.ImageUpload, error) {
	headers := form.File["images"]

	files := make([]app.ImageUpload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, &domain.ValidationError{Field: "images", Reason: "unreadable file " + fh.Filename}
		}
		files = append(files, app.ImageUpload{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        f,
		})
	}
	return files, nil
}

func closeImages(files []app.ImageUpload) {
	for _, f := range files {
		if c, ok := f.Body.(multipart.File); ok {
			c.Close()
		}
	}
}

// toHumaError translates domain errors to Huma HTTP errors.
func toHumaError(err error) error {
	if errors.Is(err, domain.ErrPropertyNotFound) ||
		errors.Is(err, domain.ErrRoomTypeNotFound) ||
		errors.Is(err, domain.ErrDocumentNotFound) {
		return huma.Error404NotFound(err.Error())
	}

	var authErr *domain.UnauthorizedError
	if errors.As(err, &authErr) {
		return huma.Error403Forbidden(authErr.Error())
	}

	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		return huma.Error422UnprocessableEntity(valErr.Error())
	}

	var trErr *domain.TransitionError
	if errors.As(err, &trErr) {
		return huma.Error409Conflict(trErr.Error())
	}

	var upErr *domain.PartialUploadError
	if errors.As(err, &upErr) {
		// Successes stay persisted; the detail names the files to retry.
		return huma.Error502BadGateway(upErr.Error())
	}

	return huma.Error500InternalServerError("internal server error")
}
