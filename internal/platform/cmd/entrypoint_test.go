package cmd

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type testConfig struct {
	Address string `env:"DOCSCONSENT_CMD_TEST_ADDR" envDefault:"127.0.0.1:8080"`
	Site    string `env:"DOCSCONSENT_CMD_TEST_SITE" envDefault:"build"`
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("DOCSCONSENT_CMD_TEST_ADDR", "env:9000")
	t.Setenv("DOCSCONSENT_CMD_TEST_SITE", "env-site")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfgRef := testConfig{}
	if err := ParseConfig(&cfgRef); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	fs.StringVar(&cfgRef.Address, "address", cfgRef.Address, "address")
	fs.StringVar(&cfgRef.Site, "site-dir", cfgRef.Site, "site-dir")

	if err := ParseArgs(fs, []string{"-address", "flag:9001"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfgRef.Address != "flag:9001" {
		t.Fatalf("expected flag value for address, got %q", cfgRef.Address)
	}
	if cfgRef.Site != "env-site" {
		t.Fatalf("expected env default site, got %q", cfgRef.Site)
	}
}

func TestParseConfigFromArgsReadsEnvAndFlags(t *testing.T) {
	t.Setenv("DOCSCONSENT_CMD_TEST_ADDR", "configarg:9000")
	t.Setenv("DOCSCONSENT_CMD_TEST_SITE", "configarg-site")

	cfgRef := testConfig{}
	fs := flag.NewFlagSet("configargs", flag.ContinueOnError)
	fs.StringVar(&cfgRef.Address, "address", "", "address")
	fs.StringVar(&cfgRef.Site, "site-dir", "", "site-dir")
	if err := ParseConfigFromArgs(&cfgRef, fs, []string{"-address", "flag:9002"}); err != nil {
		t.Fatalf("parse config and args: %v", err)
	}
	if cfgRef.Address != "flag:9002" {
		t.Fatalf("expected parsed flag address, got %q", cfgRef.Address)
	}
	if cfgRef.Site != "configarg-site" {
		t.Fatalf("expected env default site, got %q", cfgRef.Site)
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), "", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(context.Background(), ServiceDocsite, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}

func TestRunWithTelemetryRunsLoopWithoutEndpoint(t *testing.T) {
	t.Setenv("DOCSCONSENT_OTEL_ENDPOINT", "")

	called := false
	err := RunWithTelemetry(context.Background(), ServiceInject, func(context.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("RunWithTelemetry() error = %v", err)
	}
	if !called {
		t.Fatal("expected run function to be called")
	}
}

func TestRunWithTelemetryLogsLifecycle(t *testing.T) {
	t.Setenv("DOCSCONSENT_OTEL_ENDPOINT", "")

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	start := time.Date(2026, time.January, 2, 3, 4, 5, 0, time.UTC)
	ticks := []time.Time{start, start.Add(1500 * time.Millisecond)}
	clock := func() time.Time {
		next := ticks[0]
		ticks = ticks[1:]
		return next
	}

	runErr := errors.New("listen failed")
	err := RunWithTelemetryAndOptions(context.Background(), ServiceDocsite, RunOptions{Logger: logger, Now: clock}, func(context.Context) error {
		return runErr
	})
	if !errors.Is(err, runErr) {
		t.Fatalf("RunWithTelemetryAndOptions() error = %v, want %v", err, runErr)
	}
	logs := buf.String()
	for _, want := range []string{
		`msg="service starting" service=docsite`,
		`level=ERROR msg="service stopped" service=docsite duration=1.5s error="listen failed"`,
	} {
		if !strings.Contains(logs, want) {
			t.Fatalf("logs missing %q:\n%s", want, logs)
		}
	}
}
