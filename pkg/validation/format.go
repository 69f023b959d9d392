// Package validation checks configuration values and request payloads.
package validation

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/iwvelando/loan-affordability/pkg/constants"
)

// ErrUnsupportedOutputFormat is returned for an output format the assessment writers do not implement.
var ErrUnsupportedOutputFormat = errors.New("unsupported output format")

// OutputFormats lists the formats an assessment can be rendered in.
var OutputFormats = []string{constants.OutputFormatPretty, constants.OutputFormatCSV}

// ValidateOutputFormat rejects any format missing from OutputFormats. Matching is exact.
func ValidateOutputFormat(format string) error {
	if !slices.Contains(OutputFormats, format) {
		return fmt.Errorf("%w %q: expected one of %s", ErrUnsupportedOutputFormat, format, strings.Join(OutputFormats, ", "))
	}
	return nil
}
