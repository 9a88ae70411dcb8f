package proposal

// Phase is the submission phase of a session.
type Phase int

const (
	PhaseEditing Phase = iota
	PhaseReviewPending
	PhaseConfirmed
	PhaseSubmitting
	PhaseSubmitted
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseEditing:
		return "editing"
	case PhaseReviewPending:
		return "review_pending"
	case PhaseConfirmed:
		return "confirmed"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSubmitted:
		return "submitted"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}
