package cmd

import (
	"fmt"
	"strings"
)

// QuestionNotFoundError indicates a question lookup failure.
type QuestionNotFoundError struct {
	ID string
}

func (e *QuestionNotFoundError) Error() string {
	return fmt.Sprintf("question %s not found", e.ID)
}

// UnknownFormatError signals an export format the CLI cannot produce.
type UnknownFormatError struct {
	Format    string
	Supported []string
}

func (e *UnknownFormatError) Error() string {
	if len(e.Supported) == 0 {
		return fmt.Sprintf("unknown report format %q", e.Format)
	}
	return fmt.Sprintf("unknown report format %q (supported: %s)", e.Format, strings.Join(e.Supported, ", "))
}

// InvalidAnswerError reports a value the question does not offer.
type InvalidAnswerError struct {
	ID      string
	Value   string
	Allowed []int
}

func (e *InvalidAnswerError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("invalid answer %q for question %s", e.Value, e.ID)
	}
	allowed := make([]string, len(e.Allowed))
	for i, v := range e.Allowed {
		allowed[i] = fmt.Sprint(v)
	}
	return fmt.Sprintf("invalid answer %q for question %s (allowed: %s)", e.Value, e.ID, strings.Join(allowed, ", "))
}
