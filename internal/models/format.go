package models

import (
	"fmt"
	"strings"
)

// Format identifies a statement wire format.
type Format int

const (
	FormatMT940 Format = iota
	FormatCAMT053
	FormatCSV
)

func (f Format) String() string {
	switch f {
	case FormatMT940:
		return "mt940"
	case FormatCAMT053:
		return "camt053"
	case FormatCSV:
		return "csv"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ParseFormat maps a user-supplied format name to a Format. Matching is
// case-insensitive and accepts the common aliases used on the command line.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mt940":
		return FormatMT940, nil
	case "camt053", "camt", "xml":
		return FormatCAMT053, nil
	case "csv":
		return FormatCSV, nil
	default:
		return 0, fmt.Errorf("unknown format %q (expected mt940, camt053 or csv)", s)
	}
}
