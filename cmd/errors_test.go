package cmd

import "testing"

func TestQuestionNotFoundError(t *testing.T) {
	err := &QuestionNotFoundError{ID: "9.9"}
	if err.Error() != "question 9.9 not found" {
		t.Fatalf("unexpected error string: %s", err.Error())
	}
}

func TestUnknownFormatError(t *testing.T) {
	err := &UnknownFormatError{Format: "docx", Supported: []string{"json", "md"}}
	want := `unknown report format "docx" (supported: json, md)`
	if err.Error() != want {
		t.Fatalf("expected %s, got %s", want, err.Error())
	}

	err = &UnknownFormatError{Format: "docx"}
	want = `unknown report format "docx"`
	if err.Error() != want {
		t.Fatalf("expected %s, got %s", want, err.Error())
	}
}

func TestInvalidAnswerError(t *testing.T) {
	err := &InvalidAnswerError{ID: "1.1", Value: "7", Allowed: []int{0, 1, 2, 3}}
	want := `invalid answer "7" for question 1.1 (allowed: 0, 1, 2, 3)`
	if err.Error() != want {
		t.Fatalf("expected %s, got %s", want, err.Error())
	}

	err = &InvalidAnswerError{ID: "1.1", Value: "x"}
	want = `invalid answer "x" for question 1.1`
	if err.Error() != want {
		t.Fatalf("expected %s, got %s", want, err.Error())
	}
}
