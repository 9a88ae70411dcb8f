package mediahost

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stagedoor/proposals/internal/proposal"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestEnabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{name: "both set", cfg: Config{CloudName: "demo", UploadPreset: "unsigned"}, want: true},
		{name: "missing preset", cfg: Config{CloudName: "demo"}},
		{name: "missing cloud", cfg: Config{UploadPreset: "unsigned"}},
		{name: "blank", cfg: Config{CloudName: " ", UploadPreset: " "}},
	}
	for _, tc := range tests {
		if got := NewClient(tc.cfg, nil).Enabled(); got != tc.want {
			t.Fatalf("%s: Enabled() = %t, want %t", tc.name, got, tc.want)
		}
	}
	var nilClient *Client
	if nilClient.Enabled() {
		t.Fatal("nil Enabled() = true")
	}
}

func TestUploadPostsToResourceEndpoint(t *testing.T) {
	t.Parallel()

	var (
		gotURL    string
		gotPreset string
		gotFile   string
		gotName   string
	)
	client := &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		gotURL = req.URL.String()
		if err := req.ParseMultipartForm(1 << 20); err != nil {
			return nil, err
		}
		gotPreset = req.FormValue("upload_preset")
		file, header, err := req.FormFile("file")
		if err != nil {
			return nil, err
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		gotFile = string(data)
		gotName = header.Filename
		return response(http.StatusOK, `{"secure_url":"https://res.example/loi.pdf","public_id":"abc","original_filename":"loi"}`), nil
	})}

	uploader := NewClient(Config{CloudName: "demo", UploadPreset: "unsigned", APIBase: "https://api.example/v1_1/"}, client)
	result, err := uploader.Upload(context.Background(), proposal.ResourceRaw, proposal.File{Name: "loi.pdf", Data: []byte("%PDF")})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if gotURL != "https://api.example/v1_1/demo/raw/upload" {
		t.Fatalf("url = %q", gotURL)
	}
	if gotPreset != "unsigned" || gotFile != "%PDF" || gotName != "loi.pdf" {
		t.Fatalf("form = preset %q file %q name %q", gotPreset, gotFile, gotName)
	}
	want := proposal.UploadResult{URL: "https://res.example/loi.pdf", PublicID: "abc", OriginalFilename: "loi"}
	if result != want {
		t.Fatalf("Upload() = %+v, want %+v", result, want)
	}
}

func TestUploadDefaultsAPIBaseAndResource(t *testing.T) {
	t.Parallel()

	var gotURL string
	client := &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		gotURL = req.URL.String()
		return response(http.StatusOK, `{"secure_url":"https://res.example/a.png"}`), nil
	})}
	if _, err := NewClient(Config{CloudName: "demo", UploadPreset: "p"}, client).Upload(context.Background(), "", proposal.File{Name: "a.png"}); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if gotURL != "https://api.cloudinary.com/v1_1/demo/auto/upload" {
		t.Fatalf("url = %q", gotURL)
	}
}

func TestUploadErrorMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "body text", body: `{"error":{"message":"Invalid preset"}}`, want: `{"error":{"message":"Invalid preset"}}`},
		{name: "empty body", body: "", want: "Upload failed"},
	}
	for _, tc := range tests {
		client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return response(http.StatusBadRequest, tc.body), nil
		})}
		_, err := NewClient(Config{CloudName: "demo", UploadPreset: "p"}, client).Upload(context.Background(), proposal.ResourceAuto, proposal.File{Name: "a.png"})
		if err == nil || err.Error() != tc.want {
			t.Fatalf("%s: Upload() error = %v, want %q", tc.name, err, tc.want)
		}
	}
}

func TestUploadNotConfigured(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{}, nil).Upload(context.Background(), proposal.ResourceAuto, proposal.File{})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Upload() error = %v, want ErrNotConfigured", err)
	}
}
