package reporter

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/TinkerBoard2-Android/tools-asuite/exitcodes"
)

// PrintSummary renders the per-runner/per-group result table, the list of
// failed tests and any recorded run-error diagnostics, then returns the
// process exit status: exitcodes.Success only when there are no failed tests
// and no run-level errors. It reads but never mutates the accumulated state.
func (r *Reporter) PrintSummary() int {
	r.logger.Info("Printing summary...")

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle(fmt.Sprintf("Test Results Summary (%s)", formatDuration(time.Since(r.startTime))))

	t.AppendHeader(table.Row{
		"Runner", "Group", "Passed", "Failed", "Ignored", "Assumption Failed", "Total", "Status",
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Runner", AutoMerge: true},
		{Name: "Group", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Ignored", Align: text.AlignRight},
		{Name: "Assumption Failed", Align: text.AlignRight},
		{Name: "Total", Align: text.AlignRight},
	})

	for _, runnerName := range r.runnerOrder {
		entry := r.runners[runnerName]
		if entry.Unsupported() {
			t.AppendRow(table.Row{
				runnerName, "(unsupported runner, no detailed stats)", "-", "-", "-", "-", "-", "",
			})
			t.AppendSeparator()
			continue
		}
		for _, groupName := range entry.groupOrder {
			stat := entry.groups[groupName]
			displayGroup := groupName
			if displayGroup == "" {
				displayGroup = "(runner-level)"
			}
			t.AppendRow(table.Row{
				runnerName,
				displayGroup,
				stat.Passed,
				stat.Failed,
				stat.Ignored,
				stat.AssumptionFailed,
				stat.Total(),
				groupStatusString(stat),
			})
		}
		t.AppendSeparator()
	}

	if r.stats.Failed == 0 && !r.stats.RunErrors {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	t.AppendFooter(table.Row{
		"TOTAL", "", r.stats.Passed, r.stats.Failed, "", "", "", overallStatusString(&r.stats),
	})
	t.Render()

	if len(r.stats.FailedTests) > 0 {
		fmt.Fprintf(r.out, "\nFailed tests (%d):\n", len(r.stats.FailedTests))
		for _, name := range r.stats.FailedTests {
			fmt.Fprintf(r.out, "  %s %s\n", text.FgRed.Sprint("✗"), name)
		}
	}

	if len(r.errorDetails) > 0 {
		fmt.Fprintf(r.out, "\nRun errors (%d):\n", len(r.errorDetails))
		for _, detail := range r.errorDetails {
			scope := detail.runner
			if detail.group != "" {
				scope = fmt.Sprintf("%s/%s", detail.runner, detail.group)
			}
			fmt.Fprintf(r.out, "  %s %s: %s\n", text.FgRed.Sprint("!"), scope, detail.details)
		}
	}

	return r.ExitCode()
}

// ExitCode computes the overall success/failure signal without rendering
// anything. Run-level errors dominate test failures.
func (r *Reporter) ExitCode() int {
	if r.stats.RunErrors {
		return exitcodes.RuntimeErr
	}
	if r.stats.Failed > 0 {
		return exitcodes.TestFailure
	}
	return exitcodes.Success
}

// groupStatusString returns a colored status cell for one group's stats.
func groupStatusString(stat *RunStat) string {
	switch {
	case stat.RunErrors:
		return text.FgRed.Sprint("! error")
	case stat.Failed > 0:
		return text.FgRed.Sprint("✗ fail")
	case stat.Total() == stat.Ignored+stat.AssumptionFailed && stat.Total() > 0:
		return text.FgYellow.Sprint("- skip")
	default:
		return text.FgGreen.Sprint("✓ pass")
	}
}

func overallStatusString(stats *GlobalStats) string {
	switch {
	case stats.RunErrors:
		return text.FgRed.Sprint("! error")
	case stats.Failed > 0:
		return text.FgRed.Sprint("✗ fail")
	default:
		return text.FgGreen.Sprint("✓ pass")
	}
}

// formatDuration renders seconds with one decimal place.
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
