package cmd

import (
	"testing"

	"github.com/fatih/color"

	"github.com/khanhnv2901/nis2-assess/internal/compliance"
	"github.com/khanhnv2901/nis2-assess/internal/scoring"
)

func TestFormatStatusWithColor(t *testing.T) {
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		color.NoColor = original
	})

	tests := []struct {
		name   string
		status compliance.Status
		want   string
	}{
		{name: "compliant", status: compliance.StatusCompliant, want: "Compliant"},
		{name: "partial", status: compliance.StatusPartial, want: "Partial Compliance"},
		{name: "non-compliant", status: compliance.StatusNonCompliant, want: "Non-Compliant"},
		{name: "not assessed", status: compliance.StatusNotAssessed, want: "Not Assessed"},
		{name: "unknown", status: compliance.Status("pending"), want: "pending"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatStatusWithColor(tt.status); got != tt.want {
				t.Fatalf("formatStatusWithColor(%q) = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}

func TestFormatRiskWithColor(t *testing.T) {
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		color.NoColor = original
	})

	for _, p := range []int{0, 30, 60, 90} {
		risk, err := scoring.Classify(p)
		if err != nil {
			t.Fatalf("Classify(%d): %v", p, err)
		}
		if got := formatRiskWithColor(risk); got != risk.Label {
			t.Fatalf("formatRiskWithColor(%d) = %q, want %q", p, got, risk.Label)
		}
	}

	if got := formatRiskWithColor(scoring.RiskLevel{Label: "Custom"}); got != "Custom" {
		t.Fatalf("unexpected label for unknown level: %q", got)
	}
}
