package web

import (
	"context"
	"log"
	"time"

	"github.com/stagedoor/proposals/internal/platform/metrics"
	"github.com/stagedoor/proposals/internal/platform/timeouts"
	"github.com/stagedoor/proposals/internal/proposal"
)

// observedSubmitter bounds and records form backend submissions.
type observedSubmitter struct {
	next    proposal.Submitter
	timeout time.Duration
	metrics *metrics.Metrics
}

func (s observedSubmitter) Submit(ctx context.Context, payload proposal.Payload) error {
	ctx, cancel := withTimeout(ctx, s.timeout, timeouts.FormSubmit)
	defer cancel()
	err := s.next.Submit(ctx, payload)
	s.metrics.Submission(err)
	if err != nil {
		log.Printf("proposal submission failed: %v", err)
	}
	return err
}

// observedUploader bounds each media host upload.
type observedUploader struct {
	next    proposal.Uploader
	timeout time.Duration
}

func (u observedUploader) Enabled() bool {
	return u.next != nil && u.next.Enabled()
}

func (u observedUploader) Upload(ctx context.Context, resource proposal.ResourceType, file proposal.File) (proposal.UploadResult, error) {
	ctx, cancel := withTimeout(ctx, u.timeout, timeouts.MediaUpload)
	defer cancel()
	result, err := u.next.Upload(ctx, resource, file)
	if err != nil {
		log.Printf("upload %s (%s): %v", file.Name, resource, err)
	}
	return result, err
}

// observedRateSource bounds the background rate lookup and logs fallbacks.
type observedRateSource struct {
	next    proposal.RateSource
	timeout time.Duration
	metrics *metrics.Metrics
}

func (r observedRateSource) KRWToUSD(ctx context.Context) (float64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout, timeouts.ExchangeRate)
	defer cancel()
	rate, err := r.next.KRWToUSD(ctx)
	r.metrics.RateFetch(err)
	if err != nil {
		log.Printf("exchange rate unavailable, keeping fallback %v: %v", proposal.FallbackRate, err)
	}
	return rate, err
}

func withTimeout(ctx context.Context, timeout, fallback time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = fallback
	}
	return context.WithTimeout(ctx, timeout)
}
