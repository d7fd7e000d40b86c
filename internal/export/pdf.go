package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/khanhnv2901/nis2-assess/internal/report"
	"github.com/khanhnv2901/nis2-assess/internal/shared/constants"
)

const (
	pdfMargin     = 20.0
	pdfLineHeight = 5.0
	pdfFont       = "Arial"
	displayDate   = "02/01/2006"
)

// pdfDoc wraps gofpdf with the margins and paging shared by both reports.
type pdfDoc struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func newPDFDoc(title, subject string) *pdfDoc {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(title, true)
	pdf.SetSubject(subject, true)
	pdf.SetCreator("nis2-assess", true)
	pdf.AddPage()
	return &pdfDoc{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (d *pdfDoc) title(text string, size float64) {
	d.pdf.SetFont(pdfFont, "B", size)
	d.pdf.CellFormat(0, 10, d.tr(text), "", 1, "C", false, 0, "")
}

func (d *pdfDoc) centered(text string, size float64) {
	d.pdf.SetFont(pdfFont, "", size)
	d.pdf.CellFormat(0, 7, d.tr(text), "", 1, "C", false, 0, "")
}

func (d *pdfDoc) heading(text string, size float64) {
	d.ensureSpace(20)
	d.pdf.Ln(3)
	d.pdf.SetFont(pdfFont, "B", size)
	d.pdf.MultiCell(0, 7, d.tr(text), "", "", false)
	d.pdf.Ln(2)
}

func (d *pdfDoc) text(style string, size float64, indent float64, text string) {
	d.pdf.SetFont(pdfFont, style, size)
	left, _, _, _ := d.pdf.GetMargins()
	d.pdf.SetX(left + indent)
	d.pdf.MultiCell(0, pdfLineHeight, d.tr(text), "", "", false)
}

func (d *pdfDoc) gap(h float64) {
	d.pdf.Ln(h)
}

func (d *pdfDoc) ensureSpace(h float64) {
	_, pageH := d.pdf.GetPageSize()
	if d.pdf.GetY()+h > pageH-pdfMargin {
		d.pdf.AddPage()
	}
}

func (d *pdfDoc) output(w io.Writer) error {
	if err := d.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to generate PDF: %w", err)
	}
	return nil
}

// WriteAssessmentPDF writes the results document: overall level, per-section
// scores, then every question with its answer and comments.
func WriteAssessmentPDF(w io.Writer, r *report.Report) error {
	d := newPDFDoc("Cybersecurity Assessment Results", "Cybersecurity self-assessment results")

	d.title("Cybersecurity Assessment Results", 18)
	d.centered("Date: "+r.Metadata.ReportDate.Format(displayDate), 12)
	if r.Metadata.Organization != "" {
		d.centered(r.Metadata.Organization, 12)
	}
	d.gap(10)

	d.heading("Overall Security Level", 14)
	d.text("", 12, 0, fmt.Sprintf("Overall score: %d%%", r.Overall.Percentage))
	d.text("", 12, 0, "Risk level: "+r.Risk.Label)
	d.text("", 12, 0, fmt.Sprintf("Answered questions: %d/%d (%d%%)", r.Progress.Answered, r.Progress.Total, r.Progress.Percentage))
	d.text("", 12, 0, fmt.Sprintf("Policy maturity: %d%% (%d/%d)", r.Policy.Percentage, r.Policy.Current, r.Policy.Max))
	d.gap(5)

	d.heading("Analysis by Section", 14)
	for _, sec := range r.Sections {
		d.ensureSpace(20)
		d.text("B", 12, 0, sec.Title)
		d.text("", 10, 5, fmt.Sprintf("Score: %d%% (%d/%d)", sec.Score.Percentage, sec.Score.Current, sec.Score.Max))
		d.text("", 10, 5, "Risk level: "+sec.Risk.Label)
		d.gap(4)
	}

	d.pdf.AddPage()
	d.title("Detailed Answers", 16)
	d.gap(5)
	for _, sec := range r.Sections {
		d.heading(sec.Title, 14)
		for _, q := range sec.Questions {
			d.ensureSpace(25)
			d.text("B", 10, 5, q.ID+":")
			d.text("", 10, 5, q.Text)
			d.text("I", 10, 5, fmt.Sprintf("Answer: %s (%d points)", q.Answer, q.WeightedScore))
			if q.Comments != "" {
				d.text("I", 10, 5, "Comments: "+q.Comments)
			}
			d.gap(3)
		}
		d.gap(5)
	}

	return d.output(w)
}

// WriteCompliancePDF writes the regulatory compliance summary. It lists the
// most significant gaps of each requirement.
func WriteCompliancePDF(w io.Writer, r *report.Report) error {
	if err := r.Metadata.Validate(); err != nil {
		return err
	}
	law := r.Framework.Law
	d := newPDFDoc("Cybersecurity Compliance Report", "Compliance with "+law)

	d.title("CYBERSECURITY COMPLIANCE REPORT", 20)
	d.centered("In accordance with "+law, 14)
	d.gap(10)

	writeMetadataPDF(d, r.Metadata)
	d.gap(5)

	d.heading("EXECUTIVE SUMMARY", 16)
	d.text("", 12, 0, executiveSummary(r))
	d.gap(3)
	d.text("B", 12, 0, "KEY INDICATORS:")
	for _, line := range keyIndicators(r) {
		d.text("", 10, 0, "- "+line)
	}
	d.gap(5)

	d.heading("COMPLIANCE SUMMARY: "+strings.ToUpper(law), 16)
	for _, res := range r.Compliance {
		d.ensureSpace(30)
		d.text("B", 14, 0, res.Requirement.Title)
		d.text("", 10, 0, "Legal reference: "+res.Requirement.LegalReference)
		d.text("", 10, 0, fmt.Sprintf("Status: %s (%d%%)", res.Label, res.Percentage))
		if len(res.Status.Gaps) > 0 {
			gaps := limit(res.Status.Gaps, constants.PDFGapLimit)
			d.text("", 10, 0, "Main gaps: "+strings.Join(gaps, "; "))
		}
		d.gap(5)
	}

	d.heading("SECTION ANALYSIS SUMMARY", 16)
	for _, sec := range r.Sections {
		d.ensureSpace(15)
		d.text("B", 12, 0, sec.Title)
		d.text("", 10, 5, fmt.Sprintf("Score: %d%% - %s", sec.Score.Percentage, sec.Risk.Label))
		d.gap(3)
	}

	d.gap(10)
	d.text("I", 10, 0, footerNote)

	return d.output(w)
}

func writeMetadataPDF(d *pdfDoc, m report.Metadata) {
	d.text("", 12, 0, "Organization: "+m.Organization)
	d.text("", 12, 0, "Report date: "+m.ReportDate.Format(displayDate))
	if m.AssessmentPeriod != "" {
		d.text("", 12, 0, "Assessment period: "+m.AssessmentPeriod)
	}
	if m.PreparedBy != "" {
		d.text("", 12, 0, "Prepared by: "+m.PreparedBy)
	}
	if m.ApprovedBy != "" {
		d.text("", 12, 0, "Approved by: "+m.ApprovedBy)
	}
}
