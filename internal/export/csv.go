package export

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/khanhnv2901/nis2-assess/internal/report"
)

// ChecksumAlgorithm names the digest written next to CSV exports.
const ChecksumAlgorithm = "sha256"

var csvHeader = []string{
	"section_id",
	"section",
	"question_id",
	"question",
	"answer",
	"points",
	"weight",
	"weighted_score",
	"max_score",
	"policy",
	"requirements",
	"comments",
}

// WriteCSV writes one row per question and returns the SHA-256 of the bytes written.
func WriteCSV(w io.Writer, r *report.Report) (string, error) {
	h := sha256.New()
	writer := csv.NewWriter(io.MultiWriter(w, h))

	if err := writer.Write(csvHeader); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}

	for _, sec := range r.Sections {
		for _, q := range sec.Questions {
			record := []string{
				sec.ID,
				sec.Title,
				q.ID,
				q.Text,
				q.Answer,
				"",
				strconv.Itoa(q.Weight),
				strconv.Itoa(q.WeightedScore),
				strconv.Itoa(q.MaxScore),
				strconv.FormatBool(q.Policy),
				strings.Join(q.Requirements, ";"),
				q.Comments,
			}
			if q.Answered {
				record[5] = strconv.Itoa(q.Points)
			}
			if err := writer.Write(record); err != nil {
				return "", fmt.Errorf("failed to write question %s: %w", q.ID, err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ChecksumLine formats digest in the sha256sum layout.
func ChecksumLine(digest, fileName string) string {
	return fmt.Sprintf("%s  %s\n", digest, fileName)
}
