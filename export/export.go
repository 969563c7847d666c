// Package export renders an assembled report into downloadable files.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"paddytrack/models"
)

// Format is a download format.
type Format string

const (
	FormatText Format = "txt"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat defaults to text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText, "text":
		return FormatText, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported format %q (want txt|csv|json)", s)
}

// ContentType is the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Filename is the attachment name offered to the browser.
func (f Format) Filename() string { return "PaddyTrack_Report." + string(f) }

// Write renders rep in format f.
func Write(w io.Writer, f Format, rep *models.Report) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, rep)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	default:
		return WriteText(w, rep)
	}
}
