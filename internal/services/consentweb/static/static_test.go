package static

import (
	"io/fs"
	"strings"
	"testing"
)

func TestClientScriptNotifiesPageHooks(t *testing.T) {
	data, err := fs.ReadFile(FS, "consent.js")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	script := string(data)
	for _, want := range []string{
		"window.cookieConsentCallbacks",
		`decide(acceptName, "cookieconsent:accept", "onAccept")`,
		`decide(denyName, "cookieconsent:deny", "onDeny")`,
		"window.__COOKIE_CONSENT_CONFIG__",
	} {
		if !strings.Contains(script, want) {
			t.Fatalf("consent.js missing %q", want)
		}
	}
}

func TestStylesheetCoversPlacements(t *testing.T) {
	data, err := fs.ReadFile(FS, "consent.css")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	for _, placement := range []string{"top", "bottom", "top-left", "top-right", "bottom-left", "bottom-right"} {
		if !strings.Contains(string(data), ".cookie-consent--"+placement) {
			t.Fatalf("consent.css missing placement %q", placement)
		}
	}
}
