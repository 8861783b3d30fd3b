package consent

import "strings"

// SelectContent picks the copy for requestedLocale: an exact match, then
// DefaultLocale, then the first defined entry. It reports false only when
// content has no entries.
func SelectContent(content *Content, requestedLocale string) (LocalizedText, bool) {
	if text, ok := content.Get(requestedLocale); ok {
		return text, true
	}
	if text, ok := content.Get(DefaultLocale); ok {
		return text, true
	}
	if entry, ok := content.First(); ok {
		return entry.Text, true
	}
	return LocalizedText{}, false
}

// RequestedLocale normalizes a declared page language, defaulting to
// DefaultLocale when nothing is declared.
func RequestedLocale(declared string) string {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return DefaultLocale
	}
	return declared
}
