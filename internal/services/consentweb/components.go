package consentweb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/louisbranch/docsconsent/internal/consent"
)

const (
	// ConfigGlobal is the window property the client script reads.
	ConfigGlobal = "__COOKIE_CONSENT_CONFIG__"
	// MarkerAttr tags every element injected into a page.
	MarkerAttr = "data-cookie-consent"
	// BannerID is the id of the banner container.
	BannerID = "cookie-consent-banner"
)

// BannerView is everything the banner markup needs.
type BannerView struct {
	Text       consent.LocalizedText
	Placement  consent.Placement
	Locale     string
	Routes     Routes
	ReturnPath string
}

// htmlWriter accumulates the first write error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

func (hw *htmlWriter) attr(name, value string) {
	hw.raw(" " + name + "=\"" + templ.EscapeString(value) + "\"")
}

// Banner renders the consent banner. Decision buttons are plain form posts
// so the banner works without script.
func Banner(view BannerView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw("<div")
		hw.attr("id", BannerID)
		hw.attr("class", "card cookie-consent "+view.Placement.Class)
		hw.attr("style", view.Placement.Style)
		hw.attr("role", "region")
		hw.attr("aria-live", "polite")
		hw.attr("aria-labelledby", "cookie-consent-title")
		hw.attr("aria-describedby", "cookie-consent-description")
		hw.attr("lang", view.Locale)
		hw.attr(MarkerAttr, "banner")
		hw.raw(`><div role="document" class="card__body" tabindex="0">`)
		hw.raw(`<h3 id="cookie-consent-title">`)
		hw.text(view.Text.Title)
		hw.raw(`</h3><div id="cookie-consent-description"><p class="cookie-consent__description">`)
		hw.text(view.Text.Description)
		if view.Text.HasLink() {
			hw.raw(" <a")
			hw.attr("href", string(templ.URL(view.Text.LinkURL)))
			hw.raw(">")
			hw.text(view.Text.LinkText)
			hw.raw("</a>")
		}
		hw.raw(`</p></div><form class="cookie-consent__buttons" method="post"`)
		hw.attr("action", view.Routes.Accept())
		hw.raw(`><input type="hidden" name="return"`)
		hw.attr("value", view.ReturnPath)
		hw.raw(`><button class="button button--secondary button--sm" type="submit"`)
		hw.attr("formaction", view.Routes.Deny())
		hw.raw(">")
		hw.text(view.Text.DenyText)
		hw.raw(`</button><button class="button button--primary button--sm" type="submit"`)
		hw.attr("formaction", view.Routes.Accept())
		hw.raw(">")
		hw.text(view.Text.AllowText)
		hw.raw("</button></form></div></div>")
		return hw.err
	})
}

// ConfigScript renders the head script that publishes cfg for the client
// script. Build switches are not part of Config and never leave the server.
func ConfigScript(cfg consent.Config) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		payload, err := json.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encode consent config: %w", err)
		}
		hw := &htmlWriter{w: w}
		hw.raw("<script")
		hw.attr(MarkerAttr, "config")
		hw.raw(">window." + ConfigGlobal + " = ")
		// json.Marshal escapes <, > and &, so the payload cannot close the tag.
		hw.raw(string(payload))
		hw.raw(";</script>")
		return hw.err
	})
}

// Stylesheet renders the banner stylesheet link.
func Stylesheet(assetPrefix string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<link rel="stylesheet"`)
		hw.attr("href", joinAsset(assetPrefix, "consent.css"))
		hw.attr(MarkerAttr, "style")
		hw.raw(">")
		return hw.err
	})
}

// ClientScript renders the deferred client renderer used by statically
// built sites.
func ClientScript(assetPrefix string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw("<script defer")
		hw.attr("src", joinAsset(assetPrefix, "consent.js"))
		hw.attr(MarkerAttr, "client")
		hw.raw("></script>")
		return hw.err
	})
}

// RenderString renders components in order into one string.
func RenderString(ctx context.Context, components ...templ.Component) (string, error) {
	var buf bytes.Buffer
	for _, component := range components {
		if component == nil {
			continue
		}
		if err := component.Render(ctx, &buf); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func joinAsset(prefix, name string) string {
	for len(prefix) > 0 && prefix[len(prefix)-1] == '/' {
		prefix = prefix[:len(prefix)-1]
	}
	return prefix + "/" + name
}
