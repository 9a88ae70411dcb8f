// Package formbackend posts proposal submissions to the external form
// collection service.
package formbackend

import (
	"bytes"
	"context"
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

const tracerName = "github.com/stagedoor/proposals/internal/integrations/formbackend"

// ErrMissingEndpoint is returned when the client has no endpoint configured.
var ErrMissingEndpoint = errors.New("form endpoint is required")

// StatusError reports a non-2xx response from the form backend.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("form backend returned %s", e.Status)
}

// Client submits multipart payloads to one endpoint.
type Client struct {
	endpoint string
	client   *http.Client
}

// NewClient creates a form backend client. A nil client uses
// http.DefaultClient.
func NewClient(endpoint string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{endpoint: strings.TrimSpace(endpoint), client: client}
}

// Submit posts payload as multipart/form-data. Any 2xx response counts as
// accepted.
func (c *Client) Submit(ctx context.Context, payload proposal.Payload) (err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "formbackend.Submit")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if c.endpoint == "" {
		return ErrMissingEndpoint
	}

	body, contentType, err := encode(payload)
	if err != nil {
		return err
	}
	span.SetAttributes(
		attribute.String("form.name", payload.FormName),
		attribute.Int("form.attachments", len(payload.Attachments)),
		attribute.Int("form.body_bytes", body.Len()),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return fmt.Errorf("build submit request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "text/html,application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("submit request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}

func encode(payload proposal.Payload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	formName := payload.FormName
	if formName == "" {
		formName = proposal.FormName
	}
	if err := writer.WriteField(string(proposal.FieldFormName), formName); err != nil {
		return nil, "", fmt.Errorf("write form name: %w", err)
	}
	if err := writer.WriteField(string(proposal.FieldHoneypot), payload.Honeypot); err != nil {
		return nil, "", fmt.Errorf("write honeypot: %w", err)
	}
	for _, field := range payload.Fields {
		if err := writer.WriteField(string(field.Name), field.Value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", field.Name, err)
		}
	}
	for _, attachment := range payload.Attachments {
		part, err := writer.CreatePart(fileHeader(string(attachment.Field), attachment.File))
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", attachment.Field, err)
		}
		if _, err := part.Write(attachment.File.Data); err != nil {
			return nil, "", fmt.Errorf("write part %s: %w", attachment.Field, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func fileHeader(field string, file proposal.File) textproto.MIMEHeader {
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(file.Name)))
	header.Set("Content-Type", contentType)
	return header
}
