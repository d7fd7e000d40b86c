package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	assessmentapp "github.com/khanhnv2901/nis2-assess/internal/application/assessment"
	"github.com/khanhnv2901/nis2-assess/internal/domain/assessment"
	"github.com/khanhnv2901/nis2-assess/internal/scoring"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Answer the questionnaire interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		section, _ := cmd.Flags().GetString("section")
		unanswered, _ := cmd.Flags().GetBool("unanswered")

		svc, err := assessmentService(cmd)
		if err != nil {
			return err
		}
		session := &assessSession{
			ctx:    commandContext(cmd),
			svc:    svc,
			reader: bufio.NewReader(cmd.InOrStdin()),
			out:    cmd.OutOrStdout(),
		}
		return session.run(section, unanswered)
	},
}

type assessSession struct {
	ctx    context.Context
	svc    *assessmentapp.Service
	reader *bufio.Reader
	out    io.Writer
}

func (s *assessSession) run(sectionID string, onlyUnanswered bool) error {
	store := s.svc.Snapshot()
	sections := store.Sections()
	if sectionID != "" {
		sec, ok := store.Section(sectionID)
		if !ok {
			return fmt.Errorf("section %s not found", sectionID)
		}
		sections = []assessment.AnsweredSection{sec}
	}

	for _, sec := range sections {
		fmt.Fprintf(s.out, "=== %s ===\n", sec.Title)
		for _, q := range sec.Questions {
			if onlyUnanswered && q.Answered() {
				continue
			}
			quit, err := s.ask(q)
			if err != nil {
				return err
			}
			if quit {
				s.summary()
				return nil
			}
		}
	}
	s.summary()
	return nil
}

// ask prompts until q is answered or skipped. It reports true when the user
// quits or input is exhausted.
func (s *assessSession) ask(q assessment.AnsweredQuestion) (bool, error) {
	answers := selectableAnswers(q.Question)
	for {
		fmt.Fprintln(s.out, "--------------------------------------------------")
		fmt.Fprintf(s.out, "%s %s\n", colorInfo(q.ID), q.Text)
		if q.Answered() {
			label, _ := q.LabelFor(*q.SelectedAnswer)
			fmt.Fprintf(s.out, "Current: %s\n", label)
		}
		if q.Comments != "" {
			fmt.Fprintf(s.out, "Comment: %s\n", q.Comments)
		}
		for i, a := range answers {
			fmt.Fprintf(s.out, "[%d] %s\n", i+1, a.Label)
		}
		fmt.Fprintln(s.out, "[s] Skip    [c] Comment    [q] Quit")
		fmt.Fprint(s.out, "Select answer: ")

		input, eof, err := s.readLine()
		if err != nil {
			return false, err
		}

		switch strings.ToLower(input) {
		case "q":
			return true, nil
		case "":
			return eof, nil
		case "s":
			return false, nil
		case "c":
			if err := s.comment(q.ID); err != nil {
				return false, err
			}
			if updated, ok := s.svc.Snapshot().Question(q.ID); ok {
				q = updated
			}
			if eof {
				return true, nil
			}
			continue
		}

		index, convErr := strconv.Atoi(input)
		if convErr != nil || index < 1 || index > len(answers) {
			fmt.Fprintln(s.out, "Invalid selection")
			if eof {
				return true, nil
			}
			continue
		}
		choice := answers[index-1]
		if _, err := s.svc.SetAnswer(s.ctx, q.ID, choice.Value); err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "%s %s\n", colorSuccess("✓"), choice.Label)
		return eof, nil
	}
}

func (s *assessSession) comment(questionID string) error {
	fmt.Fprint(s.out, "Comment (empty to remove): ")
	text, _, err := s.readLine()
	if err != nil {
		return err
	}
	if _, err := s.svc.SetComment(s.ctx, questionID, text); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s Comment saved\n", colorSuccess("✓"))
	return nil
}

func (s *assessSession) readLine() (string, bool, error) {
	line, err := s.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), errors.Is(err, io.EOF), nil
}

func (s *assessSession) summary() {
	result := scoring.Evaluate(s.svc.Snapshot())
	fmt.Fprintln(s.out, "==================================================")
	printProgress(s.out, result.Progress)
	fmt.Fprintf(s.out, "Overall: %d%% %s\n", result.Overall.Percentage, formatRiskWithColor(result.Risk))
}

func init() {
	assessCmd.Flags().String("section", "", "only walk through the given section")
	assessCmd.Flags().Bool("unanswered", false, "skip questions that already have an answer")
	rootCmd.AddCommand(assessCmd)
}
