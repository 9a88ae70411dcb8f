package proposal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Slot identifies an upload channel.
type Slot string

const (
	// SlotDocument holds the official proposal or letter of intent.
	SlotDocument Slot = "document"
	// SlotSupporting collects supporting materials across batches.
	SlotSupporting Slot = "supporting"
)

// ParseSlot resolves a slot identifier.
func ParseSlot(raw string) (Slot, error) {
	switch Slot(strings.TrimSpace(raw)) {
	case SlotDocument:
		return SlotDocument, nil
	case SlotSupporting:
		return SlotSupporting, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSlot, raw)
	}
}

func (s Slot) resource() ResourceType {
	if s == SlotDocument {
		return ResourceRaw
	}
	return ResourceAuto
}

// ErrEmptyUploadURL is recorded when the media host accepts a file but reports
// no URL for it.
var ErrEmptyUploadURL = errors.New("upload returned no url")

type slotState struct {
	uploading bool
	urls      []string
	files     []File
}

func (s *slotState) firstURL() string {
	if len(s.urls) == 0 {
		return ""
	}
	return s.urls[0]
}

// SlotState is a read-only view of one slot.
type SlotState struct {
	Uploading bool
	URLs      []string
	// Files lists the names of the raw files currently attached.
	Files []string
}

// Slot returns the current state of slot.
func (s *Session) Slot(slot Slot) SlotState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.slots[slot]
	if !ok {
		return SlotState{}
	}
	names := make([]string, 0, len(state.files))
	for _, file := range state.files {
		names = append(names, file.Name)
	}
	return SlotState{
		Uploading: state.uploading,
		URLs:      append([]string(nil), state.urls...),
		Files:     names,
	}
}

// UploadFailure records one file that could not be uploaded.
type UploadFailure struct {
	Index int
	Name  string
	Err   error
}

func (f UploadFailure) Error() string {
	return fmt.Sprintf("upload %s: %v", f.Name, f.Err)
}

func (f UploadFailure) Unwrap() error {
	return f.Err
}

// UploadReport describes the outcome of one UploadToSlot call.
type UploadReport struct {
	Slot Slot
	// URLs holds the URLs added by this call, in request order.
	URLs     []string
	Failures []UploadFailure
	// Skipped is set when no upload was attempted because the media host is
	// not configured; the raw files are still attached to the submission.
	Skipped bool
}

// Err joins the per-file failures, or returns nil.
func (r UploadReport) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, failure := range r.Failures {
		errs = append(errs, failure)
	}
	return errors.Join(errs...)
}

// UploadToSlot attaches files to slot and, when the media host is configured,
// uploads them. The primary document slot takes exactly one file and keeps
// only the latest URL; the supporting slot appends every successful URL in
// request order. A failed file never removes URLs that already succeeded.
// Changing a slot counts as an edit: a pending review falls back to editing,
// and uploads are refused while a submission is in flight.
func (s *Session) UploadToSlot(ctx context.Context, slot Slot, files []File, uploader Uploader) (UploadReport, error) {
	report := UploadReport{Slot: slot}
	if slot != SlotDocument && slot != SlotSupporting {
		return report, fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	if slot == SlotDocument && len(files) != 1 {
		return report, ErrPrimaryFileCount
	}
	if len(files) == 0 {
		return report, nil
	}

	s.mu.Lock()
	if err := s.editableLocked(); err != nil {
		s.mu.Unlock()
		return report, err
	}
	state := s.slots[slot]
	if state.uploading {
		s.mu.Unlock()
		return report, ErrSlotBusy
	}
	state.files = append([]File(nil), files...)
	s.touchLocked()
	if uploader == nil || !uploader.Enabled() {
		s.mu.Unlock()
		report.Skipped = true
		return report, nil
	}
	state.uploading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		state.uploading = false
		s.mu.Unlock()
	}()

	urls, failures := uploadBatch(context.WithoutCancel(ctx), slot.resource(), files, uploader, s.uploadLimit)
	report.URLs = urls
	report.Failures = failures

	if len(urls) > 0 {
		s.mu.Lock()
		if slot == SlotDocument {
			state.urls = []string{urls[len(urls)-1]}
		} else {
			state.urls = append(state.urls, urls...)
		}
		s.touchLocked()
		s.mu.Unlock()
	}
	return report, report.Err()
}

// uploadBatch uploads files concurrently and returns the successful URLs in
// the order the files were given.
func uploadBatch(ctx context.Context, resource ResourceType, files []File, uploader Uploader, limit int) ([]string, []UploadFailure) {
	urls := make([]string, len(files))
	errs := make([]error, len(files))

	var group errgroup.Group
	group.SetLimit(limit)
	for i, file := range files {
		group.Go(func() error {
			result, err := uploader.Upload(ctx, resource, file)
			switch {
			case err != nil:
				errs[i] = err
			case strings.TrimSpace(result.URL) == "":
				errs[i] = ErrEmptyUploadURL
			default:
				urls[i] = result.URL
			}
			return nil
		})
	}
	_ = group.Wait()

	var (
		ordered  []string
		failures []UploadFailure
	)
	for i, file := range files {
		if errs[i] != nil {
			failures = append(failures, UploadFailure{Index: i, Name: file.Name, Err: errs[i]})
			continue
		}
		ordered = append(ordered, urls[i])
	}
	return ordered, failures
}
