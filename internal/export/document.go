package export

import (
	"embed"
	htmltemplate "html/template"
	"io"
	"strings"
	"text/template"

	"github.com/khanhnv2901/nis2-assess/internal/report"
	"github.com/khanhnv2901/nis2-assess/internal/shared/constants"
)

const (
	complianceHTMLPath     = "templates/compliance.html"
	complianceMarkdownPath = "templates/compliance.md"
	dashboardHTMLPath      = "templates/dashboard.html"
)

//go:embed templates/*
var templateFS embed.FS

// documentData is what the compliance document templates render.
type documentData struct {
	*report.Report
	ExecutiveSummary    string
	KeyIndicators       []string
	Footer              string
	ReportDate          string
	GapLimit            int
	RecommendationLimit int
}

var (
	documentFuncs = map[string]interface{}{
		"limit": limit,
		"join":  strings.Join,
		"upper": strings.ToUpper,
	}

	complianceHTMLTemplate = htmltemplate.Must(
		htmltemplate.New("compliance.html").Funcs(documentFuncs).ParseFS(templateFS, complianceHTMLPath),
	)
	complianceMarkdownTemplate = template.Must(
		template.New("compliance.md").Funcs(documentFuncs).ParseFS(templateFS, complianceMarkdownPath),
	)
)

func newDocumentData(r *report.Report) documentData {
	return documentData{
		Report:              r,
		ExecutiveSummary:    executiveSummary(r),
		KeyIndicators:       keyIndicators(r),
		Footer:              footerNote,
		ReportDate:          r.Metadata.ReportDate.Format(displayDate),
		GapLimit:            constants.DocumentGapLimit,
		RecommendationLimit: constants.DocumentRecommendationLimit,
	}
}

// WriteComplianceHTML writes the compliance document as a standalone HTML page.
func WriteComplianceHTML(w io.Writer, r *report.Report) error {
	if err := r.Metadata.Validate(); err != nil {
		return err
	}
	return complianceHTMLTemplate.Execute(w, newDocumentData(r))
}

// WriteComplianceMarkdown writes the compliance document as Markdown.
func WriteComplianceMarkdown(w io.Writer, r *report.Report) error {
	if err := r.Metadata.Validate(); err != nil {
		return err
	}
	return complianceMarkdownTemplate.Execute(w, newDocumentData(r))
}
