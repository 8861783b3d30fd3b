// Package main injects the cookie consent banner into a built docs site.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	injectcmd "github.com/louisbranch/docsconsent/internal/cmd/inject"
	"github.com/louisbranch/docsconsent/internal/platform/config"
)

func main() {
	cfg, err := injectcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("consent-inject: parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := injectcmd.Run(ctx, cfg); err != nil {
		stop()
		config.Exitf("consent-inject: %v", err)
	}
}
