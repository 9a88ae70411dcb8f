// Package web parses proposal web service configuration and launches the
// server.
package web

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/stagedoor/proposals/internal/integrations/exchangerate"
	"github.com/stagedoor/proposals/internal/integrations/formbackend"
	"github.com/stagedoor/proposals/internal/integrations/mediahost"
	entrypoint "github.com/stagedoor/proposals/internal/platform/cmd"
	"github.com/stagedoor/proposals/internal/platform/i18n/catalog"
	"github.com/stagedoor/proposals/internal/platform/metrics"
	"github.com/stagedoor/proposals/internal/platform/otel"
	"github.com/stagedoor/proposals/internal/services/web"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr     string `env:"WEB_HTTP_ADDR" envDefault:"localhost:8080"`
	FormEndpoint string `env:"FORM_ENDPOINT" envDefault:"http://localhost:8888/artist-booking/proposal-form"`

	CloudinaryCloudName      string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryUnsignedPreset string `env:"CLOUDINARY_UNSIGNED_PRESET"`
	CloudinaryAPIBase        string `env:"CLOUDINARY_API_BASE"`

	ExchangeRateURL string `env:"EXCHANGE_RATE_URL"`

	SessionKey     string        `env:"SESSION_KEY"`
	SessionIdleTTL time.Duration `env:"SESSION_IDLE_TTL" envDefault:"2h"`
	MaxSessions    int           `env:"MAX_SESSIONS" envDefault:"10000"`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"33554432"`

	// UploadConcurrency bounds parallel media host uploads per batch.
	UploadConcurrency int `env:"UPLOAD_CONCURRENCY" envDefault:"3"`

	PostRateLimit float64 `env:"POST_RATE_LIMIT" envDefault:"2"`
	PostRateBurst int     `env:"POST_RATE_BURST" envDefault:"10"`

	OTel otel.Config
}

// ParseConfig parses environment and flags into Config. Flags given on the
// command line take precedence over the environment.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.StringVar(&cfg.HTTPAddr, "http-addr", "", "HTTP listen address (env STAGEDOOR_WEB_HTTP_ADDR)")
	fs.StringVar(&cfg.FormEndpoint, "form-endpoint", "", "Form backend submission URL (env STAGEDOOR_FORM_ENDPOINT)")
	fs.StringVar(&cfg.ExchangeRateURL, "exchange-rate-url", "", "Exchange rate endpoint (env STAGEDOOR_EXCHANGE_RATE_URL)")
	fs.Int64Var(&cfg.MaxUploadBytes, "max-upload-bytes", 0, "Largest accepted request body (env STAGEDOOR_MAX_UPLOAD_BYTES)")
	if err := entrypoint.ParseConfigFromArgs(&cfg, fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the proposal web server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, cfg.OTel, func(ctx context.Context) error {
		server, err := web.NewServer(ctx, serverConfig(cfg))
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		log.Printf("proposal web listening on %s", server.Addr())
		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}

// serverConfig wires the external collaborators from cfg.
func serverConfig(cfg Config) web.Config {
	uploader := mediahost.NewClient(mediahost.Config{
		CloudName:    cfg.CloudinaryCloudName,
		UploadPreset: cfg.CloudinaryUnsignedPreset,
		APIBase:      cfg.CloudinaryAPIBase,
	}, nil)
	if !uploader.Enabled() {
		log.Printf("media host not configured, files will be attached to submissions")
	}

	var sessionKey []byte
	if key := strings.TrimSpace(cfg.SessionKey); key != "" {
		sessionKey = []byte(key)
	}

	return web.Config{
		HTTPAddr:          cfg.HTTPAddr,
		Submitter:         formbackend.NewClient(cfg.FormEndpoint, nil),
		Uploader:          uploader,
		RateSource:        exchangerate.NewClient(cfg.ExchangeRateURL, nil),
		SessionKey:        sessionKey,
		SessionIdleTTL:    cfg.SessionIdleTTL,
		MaxSessions:       cfg.MaxSessions,
		MaxUploadBytes:    cfg.MaxUploadBytes,
		UploadConcurrency: cfg.UploadConcurrency,
		PostRateLimit:     cfg.PostRateLimit,
		PostRateBurst:     cfg.PostRateBurst,
		Metrics:           metrics.New(),
		Catalog:           catalog.Default(),
	}
}
