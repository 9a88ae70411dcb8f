// Package main prints a fresh session cookie signing key.
package main

import (
	"flag"
	"os"

	"github.com/stagedoor/proposals/internal/platform/config"
	"github.com/stagedoor/proposals/internal/tools/sessionkey"
)

func main() {
	cfg, err := sessionkey.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	if err := sessionkey.Run(cfg, os.Stdout, nil); err != nil {
		config.Exitf("generate key: %v", err)
	}
}
