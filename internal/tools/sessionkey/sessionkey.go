// Package sessionkey generates signing keys for proposal session cookies.
package sessionkey

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/stagedoor/proposals/internal/platform/config"
)

// EnvName is the variable the web service reads the key from.
const EnvName = config.Prefix + "SESSION_KEY"

const minBytes = 32

// Config controls key generation.
type Config struct {
	Bytes int
	// Raw prints only the key instead of an env assignment.
	Raw bool
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{Bytes: minBytes}
	fs.IntVar(&cfg.Bytes, "bytes", cfg.Bytes, "random bytes in the key, at least 32")
	fs.BoolVar(&cfg.Raw, "raw", cfg.Raw, "print the bare key")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run writes a new key to out. A nil random source uses crypto/rand.
func Run(cfg Config, out io.Writer, random io.Reader) error {
	if cfg.Bytes < minBytes {
		return fmt.Errorf("bytes must be at least %d", minBytes)
	}
	if out == nil {
		return errors.New("output is required")
	}
	if random == nil {
		random = rand.Reader
	}

	buf := make([]byte, cfg.Bytes)
	if _, err := io.ReadFull(random, buf); err != nil {
		return fmt.Errorf("read random bytes: %w", err)
	}
	key := base64.RawURLEncoding.EncodeToString(buf)
	if cfg.Raw {
		_, err := fmt.Fprintln(out, key)
		return err
	}
	_, err := fmt.Fprintf(out, "%s=%s\n", EnvName, key)
	return err
}
