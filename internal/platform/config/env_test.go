package config

import (
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Addr    string        `env:"TEST_ADDR" envDefault:"localhost:8080"`
	IdleTTL time.Duration `env:"TEST_IDLE_TTL" envDefault:"2h"`
	Burst   int           `env:"TEST_BURST" envDefault:"10"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("ParseEnv() error = %v", err)
	}
	if cfg.Addr != "localhost:8080" || cfg.IdleTTL != 2*time.Hour || cfg.Burst != 10 {
		t.Fatalf("ParseEnv() = %+v", cfg)
	}
}

func TestParseEnvUsesPrefix(t *testing.T) {
	t.Setenv("STAGEDOOR_TEST_ADDR", "0.0.0.0:9000")
	t.Setenv("TEST_BURST", "99")

	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("ParseEnv() error = %v", err)
	}
	if cfg.Addr != "0.0.0.0:9000" {
		t.Fatalf("Addr = %q, want prefixed value", cfg.Addr)
	}
	if cfg.Burst != 10 {
		t.Fatalf("Burst = %d, unprefixed variable should be ignored", cfg.Burst)
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("STAGEDOOR_TEST_IDLE_TTL", "soon")

	var cfg envTestConfig
	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("ParseEnv() error = nil")
	}
	if !strings.HasPrefix(err.Error(), "parse env:") {
		t.Fatalf("ParseEnv() error = %v, want parse env prefix", err)
	}
}
