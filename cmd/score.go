package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/khanhnv2901/nis2-assess/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Show section, overall and policy scores with risk levels",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		svc, err := assessmentService(cmd)
		if err != nil {
			return err
		}
		result := svc.Scores()

		out := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(out, result)
		}
		printScores(out, result)
		return nil
	},
}

func printScores(out io.Writer, r scoring.Result) {
	fmt.Fprintf(out, "Overall:  %d/%d (%d%%) %s\n", r.Overall.Current, r.Overall.Max, r.Overall.Percentage, formatRiskWithColor(r.Risk))
	if r.Policy.Max > 0 {
		fmt.Fprintf(out, "Policy:   %d/%d (%d%%)\n", r.Policy.Current, r.Policy.Max, r.Policy.Percentage)
	}
	printProgress(out, r.Progress)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Sections:")
	for _, s := range r.Sections {
		fmt.Fprintf(out, "  %-14s %4d/%-4d %3d%%  %-14s %d/%d answered\n",
			s.ID, s.Score.Current, s.Score.Max, s.Score.Percentage, formatRiskWithColor(s.Risk), s.Progress.Answered, s.Progress.Total)
		fmt.Fprintf(out, "  %-14s %s\n", "", s.Title)
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func init() {
	scoreCmd.Flags().Bool("json", false, "print the scores as JSON")
}
