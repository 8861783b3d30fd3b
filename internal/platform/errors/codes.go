// Package errors provides structured, coded errors for consent configuration
// and rendering failures.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Configuration errors
	CodeContentMissing    Code = "CONSENT_CONTENT_MISSING"
	CodeConfigInvalid     Code = "CONSENT_CONFIG_INVALID"
	CodeConfigUnreadable  Code = "CONSENT_CONFIG_UNREADABLE"
	CodeLocaleUnresolved  Code = "CONSENT_LOCALE_UNRESOLVED"
	CodeInjectionRejected Code = "CONSENT_INJECTION_REJECTED"
)

// IsConfiguration reports whether the code disables the feature entirely.
func (c Code) IsConfiguration() bool {
	switch c {
	case CodeContentMissing, CodeConfigInvalid, CodeConfigUnreadable:
		return true
	default:
		return false
	}
}
