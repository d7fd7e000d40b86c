// Package export renders an assembled report into its downloadable formats.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/khanhnv2901/nis2-assess/internal/report"
	"github.com/khanhnv2901/nis2-assess/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/nis2-assess/internal/shared/errors"
	"github.com/khanhnv2901/nis2-assess/internal/shared/security"
)

// Format names an export format.
type Format string

const (
	FormatSpreadsheet   Format = "xlsx"
	FormatPDF           Format = "pdf"
	FormatCompliancePDF Format = "compliance-pdf"
	FormatHTML          Format = "html"
	FormatMarkdown      Format = "md"
	FormatJSON          Format = "json"
	FormatCSV           Format = "csv"
	FormatDashboard     Format = "dashboard"
)

const (
	assessmentStem = "Cybersecurity_Assessment"
	complianceStem = "Compliance_Report"
	dashboardStem  = "Cybersecurity_Dashboard"
	dateLayout     = "2006-01-02"
)

type formatInfo struct {
	stem       string
	ext        string
	needsOrg   bool
	contentTyp string
}

var formats = map[Format]formatInfo{
	FormatSpreadsheet:   {stem: assessmentStem, ext: "xlsx", contentTyp: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	FormatPDF:           {stem: assessmentStem, ext: "pdf", contentTyp: "application/pdf"},
	FormatCompliancePDF: {stem: complianceStem, ext: "pdf", needsOrg: true, contentTyp: "application/pdf"},
	FormatHTML:          {stem: complianceStem, ext: "html", needsOrg: true, contentTyp: "text/html; charset=utf-8"},
	FormatMarkdown:      {stem: complianceStem, ext: "md", needsOrg: true, contentTyp: "text/markdown; charset=utf-8"},
	FormatJSON:          {stem: assessmentStem, ext: "json", contentTyp: "application/json"},
	FormatCSV:           {stem: assessmentStem, ext: "csv", contentTyp: "text/csv; charset=utf-8"},
	FormatDashboard:     {stem: dashboardStem, ext: "pdf", contentTyp: "application/pdf"},
}

// Formats lists every supported format, sorted.
func Formats() []Format {
	out := make([]Format, 0, len(formats))
	for f := range formats {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseFormat validates a single format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := formats[f]; !ok {
		return "", fmt.Errorf("%q: %w", s, sharedErrors.ErrUnknownFormat)
	}
	return f, nil
}

// ParseFormats parses a comma-separated list, dropping duplicates.
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	seen := map[Format]bool{}
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no formats given: %w", sharedErrors.ErrUnknownFormat)
	}
	return out, nil
}

// FileName is the download name of f for a report dated date.
func FileName(f Format, date time.Time) string {
	info := formats[f]
	return fmt.Sprintf("%s_%s.%s", info.stem, date.Format(dateLayout), info.ext)
}

// ContentType is the MIME type served for f.
func ContentType(f Format) string {
	return formats[f].contentTyp
}

// RequiresOrganization reports whether f refuses reports without an organization name.
func RequiresOrganization(f Format) bool {
	return formats[f].needsOrg
}

// Exporter dispatches a report to the writer of each format.
type Exporter struct {
	renderer Renderer
	logger   *zap.Logger
}

// NewExporter returns an exporter. A nil renderer disables the dashboard format.
func NewExporter(renderer Renderer, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{renderer: renderer, logger: logger}
}

// Write renders r as f into w.
func (e *Exporter) Write(ctx context.Context, f Format, w io.Writer, r *report.Report) error {
	if RequiresOrganization(f) {
		if err := r.Metadata.Validate(); err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
	}

	switch f {
	case FormatSpreadsheet:
		return WriteSpreadsheet(w, r)
	case FormatPDF:
		return WriteAssessmentPDF(w, r)
	case FormatCompliancePDF:
		return WriteCompliancePDF(w, r)
	case FormatHTML:
		return WriteComplianceHTML(w, r)
	case FormatMarkdown:
		return WriteComplianceMarkdown(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatCSV:
		_, err := WriteCSV(w, r)
		return err
	case FormatDashboard:
		if e.renderer == nil {
			return fmt.Errorf("dashboard export requires a page renderer")
		}
		return WriteDashboardPDF(ctx, e.renderer, w, r)
	default:
		return fmt.Errorf("%q: %w", f, sharedErrors.ErrUnknownFormat)
	}
}

// WriteFile renders r as f into dir and returns the written path.
func (e *Exporter) WriteFile(ctx context.Context, dir string, f Format, r *report.Report) (string, error) {
	name := FileName(f, r.Metadata.ReportDate)
	if err := security.ValidateFilename(name); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, constants.DefaultDirPerm); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path, err := security.ResolveWithin(dir, name)
	if err != nil {
		return "", err
	}

	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.DefaultFilePerm)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	var digest string
	if f == FormatCSV {
		digest, err = WriteCSV(out, r)
	} else {
		err = e.Write(ctx, f, out, r)
	}
	if err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}

	if digest != "" {
		sum := path + "." + ChecksumAlgorithm
		if err := os.WriteFile(sum, []byte(ChecksumLine(digest, name)), constants.DefaultFilePerm); err != nil {
			return "", fmt.Errorf("failed to write hash file: %w", err)
		}
	}

	e.logger.Info("report exported",
		zap.String("format", string(f)),
		zap.String("path", path),
		zap.String("report_id", r.ID))
	return path, nil
}

func limit(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
