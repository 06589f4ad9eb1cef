// internal/infrastructure/report/actions.go
package report

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go-artifact-cleanup/internal/domain/eviction"
	"go-artifact-cleanup/internal/domain/models"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

const (
	OutputDeletedCount = "deleted_count"
	OutputFreedGB      = "freed_gb"
	OutputFinalSizeGB  = "final_size_gb"
	OutputWasOverLimit = "was_over_limit"
)

// ActionsReporter publishes a run to the GitHub Actions runner: step outputs
// go to the GITHUB_OUTPUT file and a markdown report to GITHUB_STEP_SUMMARY.
// Either path may be empty, in which case that part is skipped.
type ActionsReporter struct {
	outputPath  string
	summaryPath string
	now         func() time.Time
	logger      *zap.Logger
}

func NewActionsReporter(outputPath, summaryPath string, logger *zap.Logger) *ActionsReporter {
	return &ActionsReporter{
		outputPath:  outputPath,
		summaryPath: summaryPath,
		now:         time.Now,
		logger:      logger,
	}
}

// NewActionsReporterFromEnv reads the file paths the runner exports.
func NewActionsReporterFromEnv(logger *zap.Logger) *ActionsReporter {
	return NewActionsReporter(os.Getenv("GITHUB_OUTPUT"), os.Getenv("GITHUB_STEP_SUMMARY"), logger)
}

// Outputs returns the machine-readable step outputs for a run.
func Outputs(r models.RunReport) map[string]string {
	return map[string]string{
		OutputDeletedCount: strconv.Itoa(r.Summary.DeletedCount),
		OutputFreedGB:      eviction.FormatGB(eviction.ToGB(r.Summary.FreedBytes)),
		OutputFinalSizeGB:  eviction.FormatGB(eviction.ToGB(r.Summary.FinalSizeBytes)),
		OutputWasOverLimit: strconv.FormatBool(r.WasOverLimit),
	}
}

func (a *ActionsReporter) Report(ctx context.Context, r models.RunReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.outputPath != "" {
		outputs := Outputs(r)
		var b strings.Builder
		for _, key := range []string{OutputDeletedCount, OutputFreedGB, OutputFinalSizeGB, OutputWasOverLimit} {
			fmt.Fprintf(&b, "%s=%s\n", key, outputs[key])
		}
		if err := appendFile(a.outputPath, b.String()); err != nil {
			return fmt.Errorf("failed to write step outputs: %w", err)
		}
		a.logger.Debug("Step outputs written", zap.String("path", a.outputPath))
	}

	if a.summaryPath != "" {
		if err := appendFile(a.summaryPath, RenderMarkdown(r, a.now())); err != nil {
			return fmt.Errorf("failed to write job summary: %w", err)
		}
		a.logger.Debug("Job summary written", zap.String("path", a.summaryPath))
	}

	return nil
}

// RenderMarkdown renders the job summary for a run.
func RenderMarkdown(r models.RunReport, now time.Time) string {
	s := r.Summary
	var b strings.Builder

	title := "## 🧹 Artifact cleanup"
	if r.DryRun {
		title += " (dry run)"
	}
	fmt.Fprintf(&b, "%s: %s\n\n", title, r.Repository)

	b.WriteString("| Metric | Value |\n| --- | --- |\n")
	fmt.Fprintf(&b, "| Artifacts before | %d |\n", s.InitialStats.Count)
	fmt.Fprintf(&b, "| Size before | %s GB (%s) |\n",
		eviction.FormatGB(s.InitialStats.TotalSizeGB), humanize.IBytes(uint64(s.InitialStats.TotalSizeBytes)))
	fmt.Fprintf(&b, "| Limit | %s GB |\n", eviction.FormatGB(eviction.ToGB(r.LimitBytes)))
	fmt.Fprintf(&b, "| Over limit | %t |\n", r.WasOverLimit)
	fmt.Fprintf(&b, "| Deleted | %d |\n", s.DeletedCount)
	fmt.Fprintf(&b, "| Freed | %s GB (%s) |\n",
		eviction.FormatGB(eviction.ToGB(s.FreedBytes)), humanize.IBytes(uint64(s.FreedBytes)))
	fmt.Fprintf(&b, "| Size after | %s GB |\n", eviction.FormatGB(eviction.ToGB(s.FinalSizeBytes)))
	fmt.Fprintf(&b, "| Retained | %d |\n", len(s.Retained))
	fmt.Fprintf(&b, "| Failed | %d |\n\n", len(s.Failures))

	if len(r.Deleted) > 0 {
		b.WriteString("### Deleted artifacts\n\n| Name | Size | Age (days) |\n| --- | --- | --- |\n")
		for _, a := range r.Deleted {
			fmt.Fprintf(&b, "| %s | %s | %d |\n",
				escapeCell(a.Name), humanize.IBytes(uint64(a.SizeInBytes)), eviction.AgeInDays(a.CreatedAt, now))
		}
		b.WriteString("\n")
	}

	if len(s.Failures) > 0 {
		b.WriteString("### ⚠️ Failed deletions\n\n| Name | ID | Error |\n| --- | --- | --- |\n")
		for _, f := range s.Failures {
			fmt.Fprintf(&b, "| %s | %d | %s |\n", escapeCell(f.Artifact.Name), f.Artifact.ID, escapeCell(f.ErrorMessage))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

func appendFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
