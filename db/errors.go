package db

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidKey is returned by Insert when the key collides with one of the
// two values a sentinel-mode set reserves as slot markers.
var ErrInvalidKey = errors.New("invalid key")

func invalidKey(key uint64, marker string) error {
	return errors.Wrapf(ErrInvalidKey, "%d is reserved as the %s slot marker", key, marker)
}

// MultiError collects the failures of a bulk operation.
type MultiError []error

func (m MultiError) Error() string {
	var b strings.Builder
	b.WriteString("multiple errors:")
	for _, err := range m {
		b.WriteString("\n- " + err.Error())
	}
	return b.String()
}

// Unwrap lets errors.Is and errors.As see every member.
func (m MultiError) Unwrap() []error {
	return m
}

// errOrNil returns nil for an empty MultiError so callers can compare the
// result of a bulk operation against nil.
func (m MultiError) errOrNil() error {
	if len(m) == 0 {
		return nil
	}
	return m
}
