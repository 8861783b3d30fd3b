// Package inject rewrites a built documentation site so every page carries
// the consent configuration global and the client renderer.
package inject

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/louisbranch/docsconsent/internal/consent"
	"github.com/louisbranch/docsconsent/internal/platform/otel"
	"github.com/louisbranch/docsconsent/internal/services/consentweb"
	"github.com/louisbranch/docsconsent/internal/services/consentweb/static"
)

// DefaultAssetPrefix is the site-relative directory that receives the
// banner stylesheet and client script.
const DefaultAssetPrefix = "_consent"

// Options configures one injection pass.
type Options struct {
	SiteDir     string
	AssetPrefix string
	Consent     consent.Options
	Production  bool
	Logger      *slog.Logger
}

// Report summarizes an injection pass.
type Report struct {
	// Pages counts rewritten pages.
	Pages int
	// Skipped counts pages that already carried consent markup.
	Skipped int
}

// Run injects the consent head markup into every .html file under SiteDir
// and copies the static assets next to them. It does nothing when the
// activation gate is closed.
func Run(ctx context.Context, opts Options) (Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	siteDir := strings.TrimSpace(opts.SiteDir)
	if siteDir == "" {
		return Report{}, errors.New("site directory is required")
	}
	info, err := os.Stat(siteDir)
	if err != nil {
		return Report{}, fmt.Errorf("stat site directory: %w", err)
	}
	if !info.IsDir() {
		return Report{}, fmt.Errorf("site directory %s is not a directory", siteDir)
	}
	if !consentweb.Gate(logger, opts.Consent, opts.Production) {
		return Report{}, nil
	}
	prefix := strings.Trim(strings.TrimSpace(opts.AssetPrefix), "/")
	if prefix == "" {
		prefix = DefaultAssetPrefix
	}

	ctx, span := otel.Tracer("inject").Start(ctx, "consent.inject")
	defer span.End()

	head, err := consentweb.RenderString(ctx,
		consentweb.ConfigScript(opts.Consent.Config),
		consentweb.Stylesheet("/"+prefix),
		consentweb.ClientScript("/"+prefix),
	)
	if err != nil {
		return Report{}, fmt.Errorf("render head markup: %w", err)
	}

	assetDir := filepath.Join(siteDir, filepath.FromSlash(prefix))
	var report Report
	err = filepath.WalkDir(siteDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p == assetDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(p), ".html") {
			return nil
		}
		changed, err := injectFile(p, head)
		if err != nil {
			return err
		}
		if changed {
			report.Pages++
			logger.DebugContext(ctx, "cookie consent injected", "path", p)
		} else {
			report.Skipped++
		}
		return nil
	})
	if err != nil {
		return report, err
	}
	if err := copyAssets(assetDir); err != nil {
		return report, err
	}

	span.SetAttributes(
		attribute.Int("consent.pages", report.Pages),
		attribute.Int("consent.skipped", report.Skipped),
	)
	logger.InfoContext(ctx, "cookie consent injection complete",
		"site_dir", siteDir,
		"pages", report.Pages,
		"skipped", report.Skipped,
	)
	return report, nil
}

func injectFile(p, head string) (bool, error) {
	info, err := os.Stat(p)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", p, err)
	}
	page, err := os.ReadFile(p)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", p, err)
	}
	doc, err := consentweb.ParseDocument(bytes.NewReader(page))
	if err != nil {
		return false, fmt.Errorf("%s: %w", p, err)
	}
	if doc.HasMarker("") {
		return false, nil
	}
	if err := doc.AppendToHead(head); err != nil {
		return false, fmt.Errorf("%s: %w", p, err)
	}
	out, err := doc.Bytes()
	if err != nil {
		return false, fmt.Errorf("render %s: %w", p, err)
	}
	if err := os.WriteFile(p, out, info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("write %s: %w", p, err)
	}
	return true, nil
}

func copyAssets(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create asset dir: %w", err)
	}
	return fs.WalkDir(static.FS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) == ".go" {
			return nil
		}
		data, err := fs.ReadFile(static.FS, p)
		if err != nil {
			return fmt.Errorf("read asset %s: %w", p, err)
		}
		if err := os.WriteFile(filepath.Join(dir, filepath.FromSlash(p)), data, 0o644); err != nil {
			return fmt.Errorf("write asset %s: %w", p, err)
		}
		return nil
	})
}
