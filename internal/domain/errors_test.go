package domain_test

import (
	"errors"
	"testing"

	"github.com/kottageio/kottage/internal/domain"
)

func TestValidationError(t *testing.T) {
	err := &domain.ValidationError{Field: "name", Reason: "must not be empty"}

	if got, want := err.Error(), "invalid name: must not be empty"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	var ve *domain.ValidationError
	if !errors.As(error(err), &ve) {
		t.Error("errors.As should match *ValidationError")
	}
}

func TestTransitionError(t *testing.T) {
	err := &domain.TransitionError{
		Event:   domain.EventApprove,
		Current: domain.StatusRequiresDocuments,
	}

	want := `event "approve" is not valid from state "requires_documents"`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestUnauthorizedError(t *testing.T) {
	err := &domain.UnauthorizedError{ActorID: "guest-1", Action: "update property p-1"}

	want := `actor "guest-1" is not allowed to update property p-1`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestPartialUploadError(t *testing.T) {
	err := &domain.PartialUploadError{
		Failed: []domain.FailedUpload{
			{FileName: "deed.pdf", Err: errors.New("connection reset")},
			{FileName: "bill.pdf", Err: errors.New("timeout")},
		},
		Uploaded: 3,
	}

	want := "2 of 5 files failed to upload: deed.pdf, bill.pdf"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
