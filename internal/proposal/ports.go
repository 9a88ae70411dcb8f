package proposal

import "context"

// File is one file selected in a file input.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ResourceType selects how the media host stores an upload.
type ResourceType string

const (
	// ResourceAuto lets the media host detect images and PDFs.
	ResourceAuto ResourceType = "auto"
	// ResourceRaw stores the file untouched; used for proposal documents.
	ResourceRaw ResourceType = "raw"
)

// UploadResult is what the media host reports for one stored file. Only URL
// is used by the session.
type UploadResult struct {
	URL              string
	PublicID         string
	OriginalFilename string
}

// Uploader stores files on the media host.
type Uploader interface {
	// Enabled reports whether the media host is configured.
	Enabled() bool
	Upload(ctx context.Context, resource ResourceType, file File) (UploadResult, error)
}

// Submitter delivers a payload to the form backend.
type Submitter interface {
	Submit(ctx context.Context, payload Payload) error
}

// RateSource provides the current KRW to USD exchange rate.
type RateSource interface {
	KRWToUSD(ctx context.Context) (float64, error)
}
