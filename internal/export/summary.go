package export

import (
	"fmt"

	"github.com/khanhnv2901/nis2-assess/internal/compliance"
	"github.com/khanhnv2901/nis2-assess/internal/report"
)

const footerNote = "This report was produced from the answers given in the cybersecurity self-assessment tool " +
	"and reflects the organization's state at the time of assessment. Regular reassessment is recommended."

func executiveSummary(r *report.Report) string {
	return fmt.Sprintf("This report presents the results of the organization's cybersecurity self-assessment "+
		"against the requirements of %s implementing the %s.", r.Framework.Law, r.Framework.Name)
}

func keyIndicators(r *report.Report) []string {
	return []string{
		fmt.Sprintf("Overall score: %d%% (%d/%d points)", r.Overall.Percentage, r.Overall.Current, r.Overall.Max),
		"Risk level: " + r.Risk.Label,
		fmt.Sprintf("Answered questions: %d/%d (%d%%)", r.Progress.Answered, r.Progress.Total, r.Progress.Percentage),
		fmt.Sprintf("Sections: %d", len(r.Sections)),
		fmt.Sprintf("Compliant requirements: %d/%d (%d%%)", r.Summary.Count(compliance.StatusCompliant), r.Summary.Total, r.Summary.CompliancePercentage),
	}
}
