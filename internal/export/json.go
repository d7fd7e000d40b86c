package export

import (
	"encoding/json"
	"io"

	"github.com/khanhnv2901/nis2-assess/internal/report"
)

// WriteJSON writes the full report as indented JSON.
func WriteJSON(w io.Writer, r *report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
