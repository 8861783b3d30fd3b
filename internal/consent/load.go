package consent

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	apperrors "github.com/louisbranch/docsconsent/internal/platform/errors"
)

// Decode reads YAML or JSON options from r on top of DefaultOptions, then
// normalizes and validates them.
func Decode(r io.Reader) (Options, error) {
	opts := DefaultOptions()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, apperrors.Wrap(apperrors.CodeConfigUnreadable, "decode consent config", err)
	}
	// Decoding starts from defaults, so a zero here was written explicitly.
	if err := validateExpiration(opts.CookieExpirationDays); err != nil {
		return Options{}, err
	}
	opts.Config = opts.Config.Normalize()
	if err := opts.Config.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// LoadFile reads options from a YAML or JSON file.
func LoadFile(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, apperrors.Wrap(apperrors.CodeConfigUnreadable, "open consent config", err)
	}
	defer f.Close()
	opts, err := Decode(f)
	if err != nil {
		return Options{}, fmt.Errorf("load %s: %w", path, err)
	}
	return opts, nil
}

// Load is LoadFile for command startup: a missing file or a file without a
// content mapping yields DefaultOptions with no content, which the
// activation gate reports as a configuration error. Other failures are
// returned.
func Load(path string) (Options, error) {
	opts, err := LoadFile(path)
	switch {
	case err == nil:
		return opts, nil
	case errors.Is(err, fs.ErrNotExist), apperrors.HasCode(err, apperrors.CodeContentMissing):
		return DefaultOptions(), nil
	default:
		return Options{}, err
	}
}
