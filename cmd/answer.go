package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	assessmentapp "github.com/khanhnv2901/nis2-assess/internal/application/assessment"
	"github.com/khanhnv2901/nis2-assess/internal/domain/assessment"
	"github.com/khanhnv2901/nis2-assess/internal/scoring"
	sharedErrors "github.com/khanhnv2901/nis2-assess/internal/shared/errors"
)

var answerCmd = &cobra.Command{
	Use:   "answer <question-id> <value>",
	Short: "Record the answer value of a question",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, q, err := lookupQuestion(cmd, args[0])
		if err != nil {
			return err
		}
		value, err := parseAnswerValue(q, args[1])
		if err != nil {
			return err
		}

		aq, err := svc.SetAnswer(commandContext(cmd), q.ID, value)
		if err != nil {
			return mapServiceError(q.ID, err)
		}

		label, _ := aq.LabelFor(value)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s = %d (%s)\n", colorSuccess("✓"), q.ID, value, label)
		printProgress(out, scoring.StoreProgress(svc.Snapshot()))
		return nil
	},
}

var commentCmd = &cobra.Command{
	Use:   "comment <question-id> <text>",
	Short: "Attach a free-text comment to a question (empty text removes it)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, q, err := lookupQuestion(cmd, args[0])
		if err != nil {
			return err
		}
		text := strings.TrimSpace(strings.Join(args[1:], " "))

		if _, err := svc.SetComment(commandContext(cmd), q.ID, text); err != nil {
			return mapServiceError(q.ID, err)
		}

		if text == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s Comment removed from %s\n", colorSuccess("✓"), q.ID)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s Comment saved for %s\n", colorSuccess("✓"), q.ID)
		}
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear <question-id>",
	Short: "Remove the recorded answer of a question, keeping its comment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, q, err := lookupQuestion(cmd, args[0])
		if err != nil {
			return err
		}
		if _, err := svc.ClearAnswer(commandContext(cmd), q.ID); err != nil {
			return mapServiceError(q.ID, err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s Answer cleared for %s\n", colorSuccess("✓"), q.ID)
		printProgress(out, scoring.StoreProgress(svc.Snapshot()))
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every recorded answer and comment",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		svc, err := assessmentService(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if !yes {
			n := svc.Snapshot().AnsweredCount()
			ok, err := confirm(cmd.InOrStdin(), out, fmt.Sprintf("Delete all %d recorded answer(s)? [y/N]: ", n))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		if err := svc.Reset(commandContext(cmd)); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s All answers cleared\n", colorSuccess("✓"))
		return nil
	},
}

func lookupQuestion(cmd *cobra.Command, id string) (*assessmentapp.Service, assessment.Question, error) {
	if err := validateQuestionID(id); err != nil {
		return nil, assessment.Question{}, err
	}
	svc, err := assessmentService(cmd)
	if err != nil {
		return nil, assessment.Question{}, err
	}
	q, ok := svc.Catalog().Question(id)
	if !ok {
		return nil, assessment.Question{}, &QuestionNotFoundError{ID: id}
	}
	return svc, q, nil
}

func parseAnswerValue(q assessment.Question, raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || !q.Allows(value) {
		return 0, &InvalidAnswerError{ID: q.ID, Value: raw, Allowed: allowedValues(q)}
	}
	return value, nil
}

func mapServiceError(id string, err error) error {
	switch {
	case errors.Is(err, sharedErrors.ErrQuestionNotFound):
		return &QuestionNotFoundError{ID: id}
	default:
		return err
	}
}

func printProgress(out io.Writer, p scoring.Progress) {
	fmt.Fprintf(out, "Progress: %d/%d answered (%d%%)\n", p.Answered, p.Total, p.Percentage)
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
}
