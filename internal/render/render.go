// Package render writes extracted messages in one of the supported output
// formats. Every renderer receives the complete, ordered message list and
// writes it in a single pass.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/wesm/smsbackup/internal/smsdb"
)

// Format selects an output renderer.
type Format int

const (
	FormatHuman Format = iota
	FormatCSV
	FormatJSON
)

// Formats lists the accepted format names in help order.
var Formats = []string{"human", "csv", "json"}

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	default:
		return "human"
	}
}

// ParseFormat maps a format name to a Format. Names are case-insensitive.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "human", "":
		return FormatHuman, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatHuman, fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(Formats, ", "))
	}
}

// Write renders msgs to w. header controls the column header line for the
// human and csv formats; JSON has no header.
func Write(w io.Writer, format Format, msgs []smsdb.Message, header bool) error {
	switch format {
	case FormatCSV:
		return CSV(w, msgs, header)
	case FormatJSON:
		return JSON(w, msgs)
	default:
		return Human(w, msgs, header)
	}
}
