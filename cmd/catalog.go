package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khanhnv2901/nis2-assess/internal/compliance"
	"github.com/khanhnv2901/nis2-assess/internal/domain/assessment"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the question catalog and the requirement mappings",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sections and questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		section, _ := cmd.Flags().GetString("section")
		showAnswers, _ := cmd.Flags().GetBool("answers")

		svc, err := assessmentService(cmd)
		if err != nil {
			return err
		}
		store := svc.Snapshot()

		sections := store.Sections()
		if section != "" {
			sec, ok := store.Section(section)
			if !ok {
				return fmt.Errorf("section %s not found", section)
			}
			sections = []assessment.AnsweredSection{sec}
		}

		out := cmd.OutOrStdout()
		for _, sec := range sections {
			fmt.Fprintf(out, "%s %s (%d/%d answered)\n", colorInfo(sec.ID), sec.Title, sec.AnsweredCount(), len(sec.Questions))
			for _, q := range sec.Questions {
				marker := " "
				if q.Answered() {
					marker = colorSuccess("✓")
				}
				policy := ""
				if q.IsPolicyQuestion {
					policy = " [policy]"
				}
				fmt.Fprintf(out, "  %s %-6s w%d%s %s\n", marker, q.ID, q.Weight, policy, q.Text)
				if showAnswers {
					for _, a := range selectableAnswers(q.Question) {
						fmt.Fprintf(out, "           %d) %s\n", a.Value, a.Label)
					}
				}
			}
		}
		return nil
	},
}

var catalogRequirementsCmd = &cobra.Command{
	Use:   "requirements",
	Short: "List regulatory requirements and the questions they map to",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		if category != "" && !compliance.Category(category).Valid() {
			return fmt.Errorf("unknown category %q", category)
		}

		svc, err := assessmentService(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		byCategory := compliance.ByCategory(svc.Requirements())
		for _, c := range compliance.Categories() {
			if category != "" && compliance.Category(category) != c {
				continue
			}
			reqs := byCategory[c]
			if len(reqs) == 0 {
				continue
			}
			fmt.Fprintf(out, "%s (%d)\n", colorInfo(strings.ToUpper(string(c))), len(reqs))
			for _, r := range reqs {
				mandatory := ""
				if r.Mandatory {
					mandatory = " " + colorWarn("[mandatory]")
				}
				fmt.Fprintf(out, "  %-16s %s%s\n", r.ID, r.Title, mandatory)
				if r.LegalReference != "" {
					fmt.Fprintf(out, "  %-16s %s\n", "", r.LegalReference)
				}
				fmt.Fprintf(out, "  %-16s questions: %s\n", "", strings.Join(r.RelatedQuestions, ", "))
			}
		}
		return nil
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check requirement mappings against the question catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict")

		services, err := commandServices(cmd)
		if err != nil {
			return err
		}
		bundle := services.Catalog

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Framework:    %s\n", bundle.Framework.Name)
		fmt.Fprintf(out, "Sections:     %d\n", len(bundle.Questions.Sections()))
		fmt.Fprintf(out, "Questions:    %d\n", bundle.Questions.QuestionCount())
		fmt.Fprintf(out, "Requirements: %d\n", len(bundle.Requirements))

		orphans := bundle.Orphans()
		if len(orphans) == 0 {
			fmt.Fprintf(out, "%s every related question exists in the catalog\n", colorSuccess("✓"))
			return nil
		}

		fmt.Fprintf(out, "%s %d related question(s) missing from the catalog:\n", colorWarn("!"), len(orphans))
		for _, o := range orphans {
			fmt.Fprintf(out, "  %s\n", o)
		}
		if strict {
			return fmt.Errorf("%d unresolved question reference(s)", len(orphans))
		}
		return nil
	},
}

// selectableAnswers drops the leading "not answered" sentinel that shares
// its value with the first real answer.
func selectableAnswers(q assessment.Question) []assessment.Answer {
	answers := q.Answers
	if len(answers) > 1 && answers[0].Value == answers[1].Value {
		answers = answers[1:]
	}
	return answers
}

// allowedValues lists the distinct answer values of q in catalog order.
func allowedValues(q assessment.Question) []int {
	var values []int
	seen := map[int]bool{}
	for _, a := range q.Answers {
		if !seen[a.Value] {
			seen[a.Value] = true
			values = append(values, a.Value)
		}
	}
	return values
}

func init() {
	catalogListCmd.Flags().String("section", "", "only list the given section")
	catalogListCmd.Flags().Bool("answers", false, "show the answer scale of every question")
	catalogRequirementsCmd.Flags().String("category", "", "only list one category (governance|organizational|technical|operational)")
	catalogValidateCmd.Flags().Bool("strict", false, "fail when a requirement references an unknown question")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogRequirementsCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
}
