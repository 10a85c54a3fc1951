package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for simple conditions without extra context.
var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrRoomTypeNotFound = errors.New("room type not found")
	ErrDocumentNotFound = errors.New("approval document not found")
)

// ValidationError is returned when a required field is missing or malformed.
// It is always raised before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransitionError is returned when an approval state transition is not allowed.
type TransitionError struct {
	Event   Event
	Current ApprovalStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("event %q is not valid from state %q", e.Event, e.Current)
}

// UnauthorizedError is returned when an actor attempts an operation their
// role or ownership does not permit.
type UnauthorizedError struct {
	ActorID string
	Action  string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("actor %q is not allowed to %s", e.ActorID, e.Action)
}

// FailedUpload records a single file that could not be uploaded or persisted.
type FailedUpload struct {
	FileName string
	Err      error
}

// PartialUploadError is returned when some files in a batch failed. Files
// that succeeded stay persisted; callers retry only the failed ones.
type PartialUploadError struct {
	Failed   []FailedUpload
	Uploaded int
}

func (e *PartialUploadError) Error() string {
	names := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		names[i] = f.FileName
	}
	return fmt.Sprintf("%d of %d files failed to upload: %s",
		len(e.Failed), len(e.Failed)+e.Uploaded, strings.Join(names, ", "))
}
