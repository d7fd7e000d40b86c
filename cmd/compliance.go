package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/khanhnv2901/nis2-assess/internal/compliance"
)

type complianceOutput struct {
	Requirements []compliance.RequirementStatus `json:"requirements"`
	Summary      compliance.Summary             `json:"summary"`
}

var complianceCmd = &cobra.Command{
	Use:   "compliance",
	Short: "Evaluate every requirement against the recorded answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		details, _ := cmd.Flags().GetBool("details")

		svc, err := assessmentService(cmd)
		if err != nil {
			return err
		}
		statuses, summary := svc.Compliance()

		out := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(out, complianceOutput{Requirements: statuses, Summary: summary})
		}

		titles := map[string]string{}
		for _, r := range svc.Requirements() {
			titles[r.ID] = r.Title
		}
		for _, st := range statuses {
			fmt.Fprintf(out, "%-16s %-20s %3d%%  %s\n", st.RequirementID, formatStatusWithColor(st.Status), st.Percentage(), titles[st.RequirementID])
			if details {
				printStatusDetails(out, st)
			}
		}
		fmt.Fprintln(out)
		printComplianceSummary(out, summary)
		return nil
	},
}

func printStatusDetails(out io.Writer, st compliance.RequirementStatus) {
	for _, e := range st.Evidence {
		fmt.Fprintf(out, "    %s %s\n", colorSuccess("+"), e)
	}
	for _, g := range st.Gaps {
		fmt.Fprintf(out, "    %s %s\n", colorError("-"), g)
	}
	for _, r := range st.Recommendations {
		fmt.Fprintf(out, "    %s %s\n", colorInfo(">"), r)
	}
}

func printComplianceSummary(out io.Writer, s compliance.Summary) {
	for _, st := range compliance.Statuses() {
		fmt.Fprintf(out, "%-20s %d\n", st.Label()+":", s.Count(st))
	}
	fmt.Fprintf(out, "Mandatory compliant: %d/%d\n", s.MandatoryCompliant, s.Mandatory)
	fmt.Fprintf(out, "Overall compliance:  %d%%\n", s.CompliancePercentage)
}

func init() {
	complianceCmd.Flags().Bool("json", false, "print the evaluation as JSON")
	complianceCmd.Flags().Bool("details", false, "list evidence, gaps and recommendations")
}
