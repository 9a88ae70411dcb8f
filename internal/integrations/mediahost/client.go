// Package mediahost uploads files to the Cloudinary unsigned upload API.
package mediahost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/stagedoor/proposals/internal/proposal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	tracerName = "github.com/stagedoor/proposals/internal/integrations/mediahost"

	// DefaultAPIBase is the Cloudinary API root.
	DefaultAPIBase = "https://api.cloudinary.com/v1_1"

	maxErrorBody = 8 << 10
)

// ErrNotConfigured is returned by Upload when the cloud name or preset is
// missing.
var ErrNotConfigured = errors.New("media host is not configured")

// Config holds the unsigned upload settings.
type Config struct {
	CloudName    string
	UploadPreset string
	// APIBase overrides DefaultAPIBase.
	APIBase string
}

// Client performs unsigned uploads.
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient creates a media host client. A nil client uses
// http.DefaultClient.
func NewClient(cfg Config, client *http.Client) *Client {
	cfg.CloudName = strings.TrimSpace(cfg.CloudName)
	cfg.UploadPreset = strings.TrimSpace(cfg.UploadPreset)
	cfg.APIBase = strings.TrimRight(strings.TrimSpace(cfg.APIBase), "/")
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{cfg: cfg, client: client}
}

// Enabled reports whether both the cloud name and upload preset are set.
func (c *Client) Enabled() bool {
	return c != nil && c.cfg.CloudName != "" && c.cfg.UploadPreset != ""
}

type uploadResponse struct {
	SecureURL        string `json:"secure_url"`
	PublicID         string `json:"public_id"`
	OriginalFilename string `json:"original_filename"`
}

// Upload posts file to the resource-typed upload endpoint.
func (c *Client) Upload(ctx context.Context, resource proposal.ResourceType, file proposal.File) (_ proposal.UploadResult, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "mediahost.Upload")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if !c.Enabled() {
		return proposal.UploadResult{}, ErrNotConfigured
	}
	if resource == "" {
		resource = proposal.ResourceAuto
	}
	span.SetAttributes(
		attribute.String("media.resource_type", string(resource)),
		attribute.Int("media.bytes", len(file.Data)),
	)

	body, contentType, err := encode(c.cfg.UploadPreset, file)
	if err != nil {
		return proposal.UploadResult{}, err
	}
	endpoint := fmt.Sprintf("%s/%s/%s/upload", c.cfg.APIBase, c.cfg.CloudName, resource)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return proposal.UploadResult{}, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return proposal.UploadResult{}, fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(text))
		if msg == "" {
			msg = "Upload failed"
		}
		return proposal.UploadResult{}, errors.New(msg)
	}

	var decoded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return proposal.UploadResult{}, fmt.Errorf("decode upload response: %w", err)
	}
	return proposal.UploadResult{
		URL:              decoded.SecureURL,
		PublicID:         decoded.PublicID,
		OriginalFilename: decoded.OriginalFilename,
	}, nil
}

func encode(preset string, file proposal.File) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(file.Name)))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", fmt.Errorf("write file part: %w", err)
	}
	if err := writer.WriteField("upload_preset", preset); err != nil {
		return nil, "", fmt.Errorf("write upload preset: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
