package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/khanhnv2901/nis2-assess/internal/export"
	"github.com/khanhnv2901/nis2-assess/internal/report"
	sharedErrors "github.com/khanhnv2901/nis2-assess/internal/shared/errors"
)

const (
	reportDateLayout   = "2006-01-02"
	defaultFormats     = "xlsx,pdf"
	maxParallelExports = 4
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate assessment and compliance reports",
}

var reportGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Export the current assessment in one or more formats",
	Long: `Export the current assessment.

Formats: xlsx, pdf, csv, json (assessment results), compliance-pdf, html, md
(compliance report, requires --org) and dashboard (rendered with a headless
Chrome and paged into an A4 PDF).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		formatList, _ := cmd.Flags().GetString("format")
		period, _ := cmd.Flags().GetString("period")
		dateFlag, _ := cmd.Flags().GetString("date")
		showProgress, _ := cmd.Flags().GetBool("progress")

		formats, err := parseReportFormats(formatList)
		if err != nil {
			return err
		}

		meta := report.Metadata{
			Organization:     strings.TrimSpace(cliConfig.Report.Organization),
			AssessmentPeriod: period,
			PreparedBy:       cliConfig.Report.PreparedBy,
			ApprovedBy:       cliConfig.Report.ApprovedBy,
		}
		if dateFlag != "" {
			if meta.ReportDate, err = time.Parse(reportDateLayout, dateFlag); err != nil {
				return fmt.Errorf("invalid --date %q (want YYYY-MM-DD)", dateFlag)
			}
		}
		for _, f := range formats {
			if export.RequiresOrganization(f) && meta.Organization == "" {
				return fmt.Errorf("format %s: %w (use --org)", f, sharedErrors.ErrMissingOrganization)
			}
			if f == export.FormatDashboard {
				if err := validateChromePath(cliConfig.Report.ChromePath); err != nil {
					return err
				}
			}
		}

		outDir := cliConfig.Report.OutputDir
		if outDir == "" {
			var dataDir string
			if appCtx := getAppContext(cmd); appCtx != nil {
				dataDir = appCtx.DataDir
			}
			if outDir, err = getReportsDir(dataDir); err != nil {
				return err
			}
		}
		if outDir, err = resolveDir("output", outDir); err != nil {
			return err
		}

		services, err := commandServices(cmd)
		if err != nil {
			return err
		}
		rep, err := services.Assessment.Report(meta)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		var progress *progressPrinter
		if showProgress {
			progress = newProgressPrinter(out, len(formats), "report")
			progress.Start()
		}
		paths, err := exportAll(commandContext(cmd), services.Exporter, outDir, formats, rep, progress)
		if progress != nil {
			progress.Stop()
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "%s Report %s generated (%d%% overall, %s)\n", colorSuccess("✓"), rep.ID, rep.Overall.Percentage, formatRiskWithColor(rep.Risk))
		for i, f := range formats {
			fmt.Fprintf(out, "  %-15s %s\n", f, paths[i])
		}
		return nil
	},
}

func parseReportFormats(list string) ([]export.Format, error) {
	formats, err := export.ParseFormats(list)
	if err == nil {
		return formats, nil
	}
	if !errors.Is(err, sharedErrors.ErrUnknownFormat) {
		return nil, err
	}
	supported := make([]string, 0, len(export.Formats()))
	for _, f := range export.Formats() {
		supported = append(supported, string(f))
	}
	unknown := list
	for _, part := range strings.Split(list, ",") {
		if _, perr := export.ParseFormat(part); perr != nil && strings.TrimSpace(part) != "" {
			unknown = strings.TrimSpace(part)
			break
		}
	}
	return nil, &UnknownFormatError{Format: unknown, Supported: supported}
}

// exportAll writes every format concurrently. Paths are returned in the order
// of formats; the first failure cancels the remaining exports.
func exportAll(ctx context.Context, exporter *export.Exporter, dir string, formats []export.Format, rep *report.Report, progress *progressPrinter) ([]string, error) {
	paths := make([]string, len(formats))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelExports)
	for i, f := range formats {
		g.Go(func() error {
			start := time.Now()
			path, err := exporter.WriteFile(ctx, dir, f, rep)
			if progress != nil {
				progress.Increment(err == nil, time.Since(start).Seconds())
			}
			if err != nil {
				return fmt.Errorf("%s export failed: %w", f, err)
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func init() {
	flags := reportGenerateCmd.Flags()
	flags.String("format", defaultFormats, "comma-separated export formats")
	flags.StringVar(&cliConfig.Report.Organization, "org", "", "organization name")
	flags.String("period", "", "assessment period, e.g. \"Q1 2025\"")
	flags.StringVar(&cliConfig.Report.PreparedBy, "prepared-by", "", "report author")
	flags.StringVar(&cliConfig.Report.ApprovedBy, "approved-by", "", "report approver")
	flags.String("date", "", "report date YYYY-MM-DD (default: today)")
	flags.StringVar(&cliConfig.Report.OutputDir, "out", "", "output directory (default: <data-dir>/reports)")
	flags.StringVar(&cliConfig.Report.ChromePath, "chrome", "", "Chrome/Chromium executable for dashboard rendering")
	flags.Bool("progress", true, "show export progress")

	reportCmd.AddCommand(reportGenerateCmd)
}
