package proposal

import (
	"context"
	"fmt"
	"sync"
)

const defaultUploadConcurrency = 3

// Options configures a new session.
type Options struct {
	// UploadsEnabled reports whether the media host is configured. When it is
	// not, the primary document must be attached directly before review.
	UploadsEnabled bool
	// UploadConcurrency bounds parallel uploads within one supporting batch.
	UploadConcurrency int
}

// Session is one visitor's in-memory form state. All methods are safe for
// concurrent use; collaborator calls run outside the lock.
type Session struct {
	mu sync.Mutex

	fields   Fields
	honeypot string
	rate     float64
	rateOnce sync.Once

	phase   Phase
	summary Summary
	lastErr error
	// revision counts edits to fields and slots; reviewed is the revision
	// the pending or last submitted review was taken at.
	revision uint64
	reviewed uint64

	slots          map[Slot]*slotState
	uploadsEnabled bool
	uploadLimit    int
}

// NewSession creates a session in the editing phase with default field
// values and the fallback exchange rate.
func NewSession(opts Options) *Session {
	limit := opts.UploadConcurrency
	if limit <= 0 {
		limit = defaultUploadConcurrency
	}
	return &Session{
		fields: defaultFields(),
		rate:   FallbackRate,
		phase:  PhaseEditing,
		slots: map[Slot]*slotState{
			SlotDocument:   {},
			SlotSupporting: {},
		},
		uploadsEnabled: opts.UploadsEnabled,
		uploadLimit:    limit,
	}
}

// UpdateField assigns value to a declared field. Editing a session that is
// awaiting confirmation or has failed returns it to the editing phase, so a
// confirmation can only ever submit reviewed values. Edits are refused while a
// submission is in flight.
func (s *Session) UpdateField(name FieldName, value string) error {
	return s.UpdateFields(map[FieldName]string{name: value})
}

// UpdateFields assigns several fields at once. Nothing is assigned if any name
// is unknown. Reassigning a field its current value is not an edit.
func (s *Session) UpdateFields(values map[FieldName]string) error {
	for name := range values {
		if !IsDeclared(name) {
			return fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	changed := false
	for name, value := range values {
		if s.fields[name] != value {
			s.fields[name] = value
			changed = true
		}
	}
	if changed {
		s.touchLocked()
	}
	return nil
}

func (s *Session) editableLocked() error {
	switch s.phase {
	case PhaseSubmitted:
		return ErrSessionClosed
	case PhaseConfirmed, PhaseSubmitting:
		return ErrSubmissionInFlight
	default:
		return nil
	}
}

// touchLocked records an edit. A pending review or failed submission no
// longer matches the session and falls back to editing.
func (s *Session) touchLocked() {
	s.revision++
	if s.phase == PhaseReviewPending || s.phase == PhaseFailed {
		s.phase = PhaseEditing
		s.summary = Summary{}
	}
}

// SetHoneypot records the anti-automation field as posted. It is forwarded
// untouched; the form backend decides what a value means.
func (s *Session) SetHoneypot(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editableLocked() != nil {
		return
	}
	s.honeypot = value
}

// Field returns the current value of name.
func (s *Session) Field(name FieldName) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields[name]
}

// Fields returns a copy of all declared field values.
func (s *Session) Fields() Fields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields.clone()
}

// Phase returns the current submission phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// LastError returns the most recent submission error, if any.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// UploadsEnabled reports whether the session was created with a configured
// media host.
func (s *Session) UploadsEnabled() bool {
	return s.uploadsEnabled
}

// Rate returns the exchange rate in effect.
func (s *Session) Rate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rate
}

// SetRate replaces the exchange rate. Non-finite and non-positive rates are
// rejected and leave the current rate in place.
func (s *Session) SetRate(rate float64) bool {
	if !ValidRate(rate) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rate = rate
	return true
}

// RefreshRate fetches the live exchange rate once per session in the
// background. The returned channel closes when the fetch has finished; later
// calls return an already closed channel. A failed fetch keeps the fallback.
func (s *Session) RefreshRate(ctx context.Context, source RateSource) <-chan struct{} {
	done := make(chan struct{})
	if source == nil {
		close(done)
		return done
	}
	started := false
	s.rateOnce.Do(func() {
		started = true
		go func() {
			defer close(done)
			rate, err := source.KRWToUSD(ctx)
			if err != nil {
				return
			}
			s.SetRate(rate)
		}()
	})
	if !started {
		close(done)
	}
	return done
}

// Budget returns the derived budget view for the current field and rate.
func (s *Session) Budget() Budget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NewBudget(s.fields[FieldEstimatedBudgetKRW], s.rate)
}

// FeeRangeHelper returns the helper text for the selected fee range.
func (s *Session) FeeRangeHelper() string {
	return FeeRangeHelper(FeeRange(s.Field(FieldTalentFeeRange)))
}

func (s *Session) validateLocked() ValidationErrors {
	document := s.slots[SlotDocument]
	hasDocument := len(document.files) > 0 || len(document.urls) > 0
	return Validate(s.fields, !s.uploadsEnabled, hasDocument)
}

// RequestReview validates the form and, when it passes, snapshots the
// confirmation summary and moves to ReviewPending. On validation failure the
// phase is unchanged and the returned error is a ValidationErrors.
func (s *Session) RequestReview() (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseEditing, PhaseReviewPending, PhaseFailed:
	case PhaseSubmitting, PhaseConfirmed:
		return Summary{}, ErrSubmissionInFlight
	case PhaseSubmitted:
		return Summary{}, ErrSessionClosed
	default:
		return Summary{}, ErrInvalidTransition
	}

	if errs := s.validateLocked(); len(errs) > 0 {
		return Summary{}, errs
	}
	s.lastErr = nil
	s.reviewed = s.revision
	s.summary = buildSummary(
		s.fields,
		NewBudget(s.fields[FieldEstimatedBudgetKRW], s.rate),
		s.slots[SlotDocument].firstURL(),
		s.slots[SlotSupporting].urls,
	)
	s.phase = PhaseReviewPending
	return s.summary, nil
}

// Summary returns the pending confirmation snapshot, if any.
func (s *Session) Summary() (Summary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseReviewPending {
		return Summary{}, false
	}
	return s.summary, true
}

// Cancel dismisses the confirmation and returns to editing. Field values are
// untouched.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.phase {
	case PhaseReviewPending:
		s.phase = PhaseEditing
		s.summary = Summary{}
		return nil
	case PhaseSubmitted:
		return ErrSessionClosed
	default:
		return ErrInvalidTransition
	}
}

// Confirm accepts the pending review and submits immediately.
func (s *Session) Confirm(ctx context.Context, submitter Submitter) error {
	if submitter == nil {
		return ErrMissingCollaborator
	}
	s.mu.Lock()
	switch s.phase {
	case PhaseReviewPending:
	case PhaseSubmitting:
		s.mu.Unlock()
		return ErrSubmissionInFlight
	case PhaseSubmitted:
		s.mu.Unlock()
		return ErrSessionClosed
	default:
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	s.phase = PhaseConfirmed
	payload := s.beginSubmitLocked()
	s.mu.Unlock()
	return s.finishSubmit(ctx, submitter, payload)
}

// Submit sends the live field state to the form backend. It is allowed after
// a confirmation and as a retry after a failure. While a submission is
// running further calls return ErrSubmissionInFlight without issuing a
// request.
func (s *Session) Submit(ctx context.Context, submitter Submitter) error {
	if submitter == nil {
		return ErrMissingCollaborator
	}
	s.mu.Lock()
	switch s.phase {
	case PhaseConfirmed, PhaseFailed:
	case PhaseSubmitting:
		s.mu.Unlock()
		return ErrSubmissionInFlight
	case PhaseSubmitted:
		s.mu.Unlock()
		return ErrSessionClosed
	default:
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	payload := s.beginSubmitLocked()
	s.mu.Unlock()
	return s.finishSubmit(ctx, submitter, payload)
}

func (s *Session) payloadLocked() Payload {
	return buildPayload(
		s.fields,
		s.honeypot,
		NewBudget(s.fields[FieldEstimatedBudgetKRW], s.rate),
		s.slots[SlotDocument],
		s.slots[SlotSupporting],
	)
}

func (s *Session) beginSubmitLocked() Payload {
	s.phase = PhaseSubmitting
	s.summary = Summary{}
	s.lastErr = nil
	return s.payloadLocked()
}

// finishSubmit performs the request detached from caller cancellation: once
// issued, a submission only ends in success or failure. A failed submission
// is only retryable when nothing changed while it ran; otherwise the session
// has to be reviewed again.
func (s *Session) finishSubmit(ctx context.Context, submitter Submitter, payload Payload) error {
	err := submitter.Submit(context.WithoutCancel(ctx), payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.phase = PhaseFailed
		if s.revision != s.reviewed {
			s.phase = PhaseEditing
		}
		s.lastErr = fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
		return s.lastErr
	}
	s.phase = PhaseSubmitted
	return nil
}
