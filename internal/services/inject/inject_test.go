package inject

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/docsconsent/internal/consent"
	"github.com/louisbranch/docsconsent/internal/platform/logging"
)

const page = `<!DOCTYPE html><html lang="en"><head><title>Docs</title></head><body><p>hi</p></body></html>`

func testOptions(t *testing.T) Options {
	t.Helper()
	opts := consent.DefaultOptions()
	opts.Content = consent.NewContent(consent.LocaleEntry{Locale: "en", Text: consent.LocalizedText{
		Title: "Cookies", Description: "We use cookies.", AllowText: "Allow", DenyText: "Deny",
	}})
	return Options{
		SiteDir:    t.TempDir(),
		Consent:    opts,
		Production: true,
		Logger:     logging.Discard(),
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func readFile(t *testing.T, p string) string {
	t.Helper()
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read %s: %v", p, err)
	}
	return string(data)
}

func TestRunInjectsEveryPage(t *testing.T) {
	opts := testOptions(t)
	index := writeFile(t, opts.SiteDir, "index.html", page)
	nested := writeFile(t, opts.SiteDir, "guide/intro.html", page)
	asset := writeFile(t, opts.SiteDir, "app.js", "console.log(1)")

	report, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Pages != 2 || report.Skipped != 0 {
		t.Fatalf("report = %+v, want 2 pages", report)
	}
	for _, p := range []string{index, nested} {
		got := readFile(t, p)
		for _, want := range []string{
			`<script data-cookie-consent="config">window.__COOKIE_CONSENT_CONFIG__ = {`,
			`<link rel="stylesheet" href="/_consent/consent.css" data-cookie-consent="style"/>`,
			`<script defer="" src="/_consent/consent.js" data-cookie-consent="client"></script></head>`,
		} {
			if !strings.Contains(got, want) {
				t.Fatalf("%s missing %q:\n%s", p, want, got)
			}
		}
		if strings.Contains(got, `"enabled"`) || strings.Contains(got, `"debug"`) {
			t.Fatalf("%s exposes activation flags:\n%s", p, got)
		}
	}
	if got := readFile(t, asset); got != "console.log(1)" {
		t.Fatalf("non-html file rewritten: %q", got)
	}
	for _, name := range []string{"consent.css", "consent.js"} {
		if _, err := os.Stat(filepath.Join(opts.SiteDir, "_consent", name)); err != nil {
			t.Fatalf("asset %s not copied: %v", name, err)
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	opts := testOptions(t)
	index := writeFile(t, opts.SiteDir, "index.html", page)

	if _, err := Run(context.Background(), opts); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	first := readFile(t, index)

	report, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if report.Pages != 0 || report.Skipped != 1 {
		t.Fatalf("report = %+v, want 1 skipped", report)
	}
	if got := readFile(t, index); got != first {
		t.Fatalf("page changed on second pass:\n%s", got)
	}
}

func TestRunCustomAssetPrefix(t *testing.T) {
	opts := testOptions(t)
	opts.AssetPrefix = "/assets/consent/"
	index := writeFile(t, opts.SiteDir, "index.html", page)

	if _, err := Run(context.Background(), opts); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(readFile(t, index), `src="/assets/consent/consent.js"`) {
		t.Fatal("expected custom asset prefix in script src")
	}
	if _, err := os.Stat(filepath.Join(opts.SiteDir, "assets", "consent", "consent.js")); err != nil {
		t.Fatalf("asset not copied: %v", err)
	}
}

func TestRunGateClosed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{name: "development", mutate: func(o *Options) { o.Production = false }},
		{name: "disabled", mutate: func(o *Options) { o.Consent.Enabled = false }},
		{name: "no content", mutate: func(o *Options) { o.Consent.Content = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(t)
			tt.mutate(&opts)
			index := writeFile(t, opts.SiteDir, "index.html", page)

			report, err := Run(context.Background(), opts)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if report != (Report{}) {
				t.Fatalf("report = %+v, want zero", report)
			}
			if got := readFile(t, index); got != page {
				t.Fatalf("page rewritten with gate closed:\n%s", got)
			}
			if _, err := os.Stat(filepath.Join(opts.SiteDir, DefaultAssetPrefix)); !os.IsNotExist(err) {
				t.Fatalf("asset dir created with gate closed: %v", err)
			}
		})
	}
}

func TestRunDebugOutsideProduction(t *testing.T) {
	opts := testOptions(t)
	opts.Production = false
	opts.Consent.Debug = true
	writeFile(t, opts.SiteDir, "index.html", page)

	report, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Pages != 1 {
		t.Fatalf("Pages = %d, want 1", report.Pages)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	opts := testOptions(t)
	writeFile(t, opts.SiteDir, "index.html", page)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, opts); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRunRequiresSiteDir(t *testing.T) {
	opts := testOptions(t)
	opts.SiteDir = filepath.Join(opts.SiteDir, "missing")
	if _, err := Run(context.Background(), opts); err == nil {
		t.Fatal("expected error for missing site dir")
	}
	opts.SiteDir = " "
	if _, err := Run(context.Background(), opts); err == nil {
		t.Fatal("expected error for blank site dir")
	}
}
