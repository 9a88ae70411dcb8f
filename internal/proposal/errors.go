package proposal

import "errors"

var (
	// ErrUnknownField is returned when a field is not part of the form.
	ErrUnknownField = errors.New("unknown proposal field")
	// ErrSessionClosed is returned for any mutation after a successful submission.
	ErrSessionClosed = errors.New("proposal session already submitted")
	// ErrInvalidTransition is returned when an operation is not allowed in the current phase.
	ErrInvalidTransition = errors.New("invalid proposal phase transition")
	// ErrSubmissionInFlight is returned when a submission is already running.
	ErrSubmissionInFlight = errors.New("proposal submission already in flight")
	// ErrSubmissionFailed wraps a failed submission; the session stays retryable.
	ErrSubmissionFailed = errors.New("proposal submission failed")
	// ErrSlotBusy is returned when a slot already has an upload running.
	ErrSlotBusy = errors.New("upload slot busy")
	// ErrUnknownSlot is returned for slot identifiers other than the two defined slots.
	ErrUnknownSlot = errors.New("unknown upload slot")
	// ErrPrimaryFileCount is returned when the primary slot does not receive exactly one file.
	ErrPrimaryFileCount = errors.New("primary document slot takes exactly one file")
	// ErrMissingCollaborator is returned when a required port is nil.
	ErrMissingCollaborator = errors.New("proposal collaborator is required")
)
