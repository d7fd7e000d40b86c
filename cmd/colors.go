package cmd

import (
	"github.com/fatih/color"

	"github.com/khanhnv2901/nis2-assess/internal/compliance"
	"github.com/khanhnv2901/nis2-assess/internal/scoring"
)

var (
	colorSuccess  = color.New(color.FgGreen).SprintFunc()
	colorInfo     = color.New(color.FgCyan).SprintFunc()
	colorWarn     = color.New(color.FgYellow).SprintFunc()
	colorError    = color.New(color.FgRed).SprintFunc()
	colorCritical = color.New(color.FgRed, color.Bold).SprintFunc()
)

func formatRiskWithColor(risk scoring.RiskLevel) string {
	switch risk.Level {
	case scoring.LevelLow:
		return colorSuccess(risk.Label)
	case scoring.LevelMedium:
		return colorWarn(risk.Label)
	case scoring.LevelHigh:
		return colorError(risk.Label)
	case scoring.LevelCritical:
		return colorCritical(risk.Label)
	default:
		return risk.Label
	}
}

func formatStatusWithColor(status compliance.Status) string {
	label := status.Label()
	switch status {
	case compliance.StatusCompliant:
		return colorSuccess(label)
	case compliance.StatusPartial:
		return colorWarn(label)
	case compliance.StatusNonCompliant:
		return colorError(label)
	case compliance.StatusNotAssessed:
		return colorInfo(label)
	default:
		return string(status)
	}
}
