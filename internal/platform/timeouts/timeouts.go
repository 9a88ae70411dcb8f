// Package timeouts holds the HTTP server and client deadlines.
package timeouts

import "time"

// ReadHeader limits how long the server waits for request headers.
const ReadHeader = 5 * time.Second

// Idle closes keep-alive connections with no traffic.
const Idle = 60 * time.Second

// Shutdown bounds graceful shutdown of in-flight requests.
const Shutdown = 5 * time.Second

// ExchangeRate bounds one exchange-rate lookup. The lookup runs in the
// background and the fallback rate stays in effect until it finishes.
const ExchangeRate = 10 * time.Second

// MediaUpload bounds one upload to the media host.
const MediaUpload = 2 * time.Minute

// FormSubmit bounds one submission to the form backend.
const FormSubmit = time.Minute
