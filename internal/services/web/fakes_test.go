package web

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stagedoor/proposals/internal/proposal"
)

var errBackendDown = errors.New("backend down")

type fakeSubmitter struct {
	mu       sync.Mutex
	err      error
	payloads []proposal.Payload
}

func (s *fakeSubmitter) Submit(_ context.Context, payload proposal.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, payload)
	return s.err
}

func (s *fakeSubmitter) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *fakeSubmitter) calls() []proposal.Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]proposal.Payload(nil), s.payloads...)
}

type fakeUploader struct {
	mu        sync.Mutex
	resources []proposal.ResourceType
}

func (u *fakeUploader) Enabled() bool { return true }

func (u *fakeUploader) Upload(_ context.Context, resource proposal.ResourceType, file proposal.File) (proposal.UploadResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.resources = append(u.resources, resource)
	if strings.HasPrefix(file.Name, "broken") {
		return proposal.UploadResult{}, errors.New("media host rejected file")
	}
	return proposal.UploadResult{URL: "https://media.example/" + file.Name}, nil
}

type testFile struct {
	field string
	name  string
	data  string
}

// browser replays cookies between requests against one handler.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, handler http.Handler) *browser {
	t.Helper()
	return &browser{t: t, handler: handler, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, cookie := range b.cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)
	for _, cookie := range rec.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(b.cookies, cookie.Name)
			continue
		}
		b.cookies[cookie.Name] = cookie
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	b.t.Helper()
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) postForm(path string, values url.Values, htmx bool) *httptest.ResponseRecorder {
	b.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return b.do(req)
}

func (b *browser) postMultipart(path string, values url.Values, files []testFile, htmx bool) *httptest.ResponseRecorder {
	b.t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, list := range values {
		for _, value := range list {
			if err := writer.WriteField(key, value); err != nil {
				b.t.Fatalf("WriteField() error = %v", err)
			}
		}
	}
	for _, file := range files {
		part, err := writer.CreateFormFile(file.field, file.name)
		if err != nil {
			b.t.Fatalf("CreateFormFile() error = %v", err)
		}
		if _, err := part.Write([]byte(file.data)); err != nil {
			b.t.Fatalf("Write() error = %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		b.t.Fatalf("Close() error = %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return b.do(req)
}

func validForm() url.Values {
	return url.Values{
		"form-name":            {proposal.FormName},
		"bot-field":            {""},
		"organizer_full_name":  {"Ada Lovelace"},
		"organization_name":    {"Analytical Events"},
		"official_email":       {"ada@example.com"},
		"contact_number":       {"+82 10 1234 5678"},
		"designation":          {"Director"},
		"event_name":           {"Seoul Winter Fest"},
		"event_type":           {"Festival"},
		"proposed_dates":       {"2027-01-15"},
		"venue_location":       {"Seoul, Korea"},
		"audience_size":        {"5000"},
		"estimated_budget_krw": {"1,500,000"},
		"talent_fee_range":     {"100k-250k"},
		"responsibility":       {"Shared"},
		"event_description":    {"A winter music festival."},
		"auth_agreement":       {"on"},
		"confidentiality_ack":  {"on"},
		"payment_terms":        {"on"},
		"consent_to_contact":   {"on"},
		"digital_signature":    {"Ada Lovelace"},
	}
}

func newTestHandler(t *testing.T, cfg Config) http.Handler {
	t.Helper()
	if cfg.Submitter == nil {
		cfg.Submitter = &fakeSubmitter{}
	}
	if cfg.SessionKey == nil {
		cfg.SessionKey = []byte("test-session-key-0123456789abcdef")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return handler
}
