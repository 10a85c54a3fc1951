package fsm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kottageio/kottage/internal/adapter/fsm"
	"github.com/kottageio/kottage/internal/domain"
)

func TestValidator_ValidTransitions(t *testing.T) {
	cases := []struct {
		name    string
		current domain.ApprovalStatus
		event   domain.Event
		want    domain.ApprovalStatus
	}{
		{"documents submitted", domain.StatusRequiresDocuments, domain.EventDocumentsSubmitted, domain.StatusPending},
		{"start review", domain.StatusPending, domain.EventStartReview, domain.StatusUnderReview},
		{"approve from pending", domain.StatusPending, domain.EventApprove, domain.StatusApproved},
		{"approve from under review", domain.StatusUnderReview, domain.EventApprove, domain.StatusApproved},
		{"reject from pending", domain.StatusPending, domain.EventReject, domain.StatusRejected},
		{"reject from under review", domain.StatusUnderReview, domain.EventReject, domain.StatusRejected},
		{"reopen after rejection", domain.StatusRejected, domain.EventReopen, domain.StatusPending},
	}

	v := fsm.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := v.Apply(context.Background(), tc.current, tc.event)
			if err != nil {
				t.Fatalf("Apply(%q, %q) returned error: %v", tc.current, tc.event, err)
			}
			if got != tc.want {
				t.Errorf("Apply(%q, %q) = %q, want %q", tc.current, tc.event, got, tc.want)
			}
		})
	}
}

func TestValidator_InvalidTransitions(t *testing.T) {
	cases := []struct {
		name    string
		current domain.ApprovalStatus
		event   domain.Event
	}{
		{"approve without documents", domain.StatusRequiresDocuments, domain.EventApprove},
		{"reject without documents", domain.StatusRequiresDocuments, domain.EventReject},
		{"review without documents", domain.StatusRequiresDocuments, domain.EventStartReview},
		{"resubmit while pending", domain.StatusPending, domain.EventDocumentsSubmitted},
		{"resubmit while rejected", domain.StatusRejected, domain.EventDocumentsSubmitted},
		{"approve after approval", domain.StatusApproved, domain.EventApprove},
		{"reject after approval", domain.StatusApproved, domain.EventReject},
		{"reopen non-rejected", domain.StatusPending, domain.EventReopen},
		{"reopen approved", domain.StatusApproved, domain.EventReopen},
		{"notification event created", domain.StatusPending, domain.EventCreated},
		{"notification event deleted", domain.StatusApproved, domain.EventDeleted},
	}

	v := fsm.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Apply(context.Background(), tc.current, tc.event)
			if err == nil {
				t.Fatalf("Apply(%q, %q) should have failed", tc.current, tc.event)
			}

			var te *domain.TransitionError
			if !errors.As(err, &te) {
				t.Fatalf("error type = %T, want *domain.TransitionError", err)
			}
			if te.Event != tc.event {
				t.Errorf("TransitionError.Event = %q, want %q", te.Event, tc.event)
			}
			if te.Current != tc.current {
				t.Errorf("TransitionError.Current = %q, want %q", te.Current, tc.current)
			}
		})
	}
}

func TestValidator_FullLifecycle(t *testing.T) {
	v := fsm.New()
	ctx := context.Background()

	// requires_documents → pending → under_review → rejected → pending → approved
	steps := []struct {
		event domain.Event
		want  domain.ApprovalStatus
	}{
		{domain.EventDocumentsSubmitted, domain.StatusPending},
		{domain.EventStartReview, domain.StatusUnderReview},
		{domain.EventReject, domain.StatusRejected},
		{domain.EventReopen, domain.StatusPending},
		{domain.EventApprove, domain.StatusApproved},
	}

	current := domain.StatusRequiresDocuments
	for _, step := range steps {
		next, err := v.Apply(ctx, current, step.event)
		if err != nil {
			t.Fatalf("Apply(%q, %q) returned error: %v", current, step.event, err)
		}
		if next != step.want {
			t.Fatalf("Apply(%q, %q) = %q, want %q", current, step.event, next, step.want)
		}
		current = next
	}

	// Approved is terminal.
	for _, event := range []domain.Event{domain.EventApprove, domain.EventReject, domain.EventReopen, domain.EventStartReview} {
		if _, err := v.Apply(ctx, current, event); err == nil {
			t.Errorf("Apply(%q, %q) should have failed on terminal state", current, event)
		}
	}
}
