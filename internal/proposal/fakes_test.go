package proposal

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

type recordingSubmitter struct {
	mu       sync.Mutex
	err      error
	payloads []Payload
}

func (s *recordingSubmitter) Submit(_ context.Context, payload Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, payload)
	return s.err
}

func (s *recordingSubmitter) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payloads)
}

func (s *recordingSubmitter) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

type blockingSubmitter struct {
	started chan struct{}
	release chan struct{}
	count   atomic.Int32
	err     error
}

func newBlockingSubmitter() *blockingSubmitter {
	return &blockingSubmitter{started: make(chan struct{}, 1), release: make(chan struct{})}
}

func (s *blockingSubmitter) Submit(ctx context.Context, _ Payload) error {
	s.count.Add(1)
	s.started <- struct{}{}
	<-s.release
	if s.err != nil {
		return s.err
	}
	return ctx.Err()
}

func snapshotPayload(s *Session) Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payloadLocked()
}

func validateNow(s *Session) ValidationErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateLocked()
}

type fakeUploader struct {
	enabled bool
	fail    map[string]error
	calls   atomic.Int32

	mu        sync.Mutex
	resources []ResourceType
}

func (u *fakeUploader) Enabled() bool { return u.enabled }

func (u *fakeUploader) Upload(_ context.Context, resource ResourceType, file File) (UploadResult, error) {
	u.calls.Add(1)
	u.mu.Lock()
	u.resources = append(u.resources, resource)
	u.mu.Unlock()
	if err := u.fail[file.Name]; err != nil {
		return UploadResult{}, err
	}
	return UploadResult{URL: "https://media.example/" + file.Name, OriginalFilename: file.Name}, nil
}

type staticRate struct {
	rate float64
	err  error
}

func (r staticRate) KRWToUSD(context.Context) (float64, error) {
	return r.rate, r.err
}

var errBoom = errors.New("boom")
