package assets

import (
	"fmt"
	"strings"
)

// MaxAssetNameLength bounds theme and template names.
const MaxAssetNameLength = 64

// ValidateAssetName rejects names that could address anything other than
// <kind>/<name>.<ext>: empty or overlong names, path separators, and dots.
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case len(name) > MaxAssetNameLength:
		return fmt.Errorf("%w: %d chars, max %d", ErrInvalidAssetName, len(name), MaxAssetNameLength)
	case strings.ContainsAny(name, "/\\.:"):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
