package wire

import "strings"

// Format selects the wire representation of argument and result values.
type Format string

const (
	// FormatOrdinal packs values as a positional sequence in declaration
	// order. Default.
	FormatOrdinal Format = "ordinal"
	// FormatNamed packs values as (name, value) pairs.
	FormatNamed Format = "named"
)

// ParseFormat parses a deployment format setting. Matching is
// case-insensitive; empty or unrecognized input resolves to FormatOrdinal.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), string(FormatNamed)) {
		return FormatNamed
	}
	return FormatOrdinal
}
