package preset

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for preset lookups and catalog files.
var (
	ErrUnknownPreset  = errors.New("unknown preset")
	ErrInvalidCatalog = errors.New("invalid preset catalog")
)

// UnknownPresetError reports a preset name missing from the catalog.
type UnknownPresetError struct {
	Name  string
	Known []string
}

// Error implements the error interface.
func (e *UnknownPresetError) Error() string {
	if len(e.Known) > 0 {
		return fmt.Sprintf("unknown preset %q; available: %s", e.Name, strings.Join(e.Known, ", "))
	}
	return fmt.Sprintf("unknown preset %q", e.Name)
}

// Unwrap returns the sentinel error.
func (e *UnknownPresetError) Unwrap() error {
	return ErrUnknownPreset
}
