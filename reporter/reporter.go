// Package reporter aggregates test outcomes pushed by an external
// test-execution driver and renders live progress plus a final summary.
//
// A Reporter is created once per invocation and must only be fed from a
// single goroutine; callers that parallelize test execution are responsible
// for serializing ProcessTestResult calls.
package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/TinkerBoard2-Android/tools-asuite/types"
)

// ErrorPolicy controls how an ERROR outcome that names a concrete test is
// counted. The reference reporter never counts such outcomes as failures;
// they only set the run-error flags.
type ErrorPolicy int

const (
	// ErrorSetsFlagOnly matches the reference behavior: ERROR outcomes
	// touch only RunErrors, even when a test name is present.
	ErrorSetsFlagOnly ErrorPolicy = iota
	// ErrorCountsAsFailure additionally counts test-scoped ERROR outcomes
	// as failed tests.
	ErrorCountsAsFailure
)

// errorDetail remembers the diagnostic text of an ERROR outcome so the
// summary can replay it.
type errorDetail struct {
	runner  string
	group   string
	details string
}

// Reporter ingests TestOutcome records one at a time, keeps running
// statistics partitioned by runner and group, and renders the final summary.
type Reporter struct {
	out    io.Writer
	logger log.Logger
	policy ErrorPolicy

	runners     map[string]*runnerEntry
	runnerOrder []string

	stats        GlobalStats
	errorDetails []errorDetail

	lastRunName    string
	sawFirstResult bool
	startTime      time.Time
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithOutput directs progress lines and the summary to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Reporter) { r.out = w }
}

// WithLogger sets the structured logger used for diagnostics.
func WithLogger(l log.Logger) Option {
	return func(r *Reporter) { r.logger = l }
}

// WithErrorPolicy selects how test-scoped ERROR outcomes are counted.
func WithErrorPolicy(p ErrorPolicy) Option {
	return func(r *Reporter) { r.policy = p }
}

// New creates an empty Reporter.
func New(opts ...Option) *Reporter {
	r := &Reporter{
		out:       os.Stdout,
		logger:    log.Root(),
		runners:   make(map[string]*runnerEntry),
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterUnsupportedRunner records runnerName with the unsupported sentinel
// instead of a group mapping. Registration is advisory: if the runner later
// reports structured outcomes anyway, they are still counted. Calling twice
// with the same name is harmless.
func (r *Reporter) RegisterUnsupportedRunner(runnerName string) {
	entry, ok := r.runners[runnerName]
	if !ok {
		entry = newRunnerEntry()
		r.runners[runnerName] = entry
		r.runnerOrder = append(r.runnerOrder, runnerName)
	}
	entry.unsupported = true
	r.logger.Debug("Registered unsupported runner", "runner", runnerName)
}

// ProcessTestResult ingests one outcome: it resolves (creating on first
// access) the runner and group context, emits run/group banners on first
// sight, applies the status to the counters and prints a one-line progress
// record. Malformed outcomes are rejected without touching any counter.
func (r *Reporter) ProcessTestResult(outcome *types.TestOutcome) error {
	if err := outcome.Validate(); err != nil {
		return fmt.Errorf("malformed test outcome: %w", err)
	}

	entry, ok := r.runners[outcome.RunnerName]
	if !ok {
		entry = newRunnerEntry()
		r.runners[outcome.RunnerName] = entry
		r.runnerOrder = append(r.runnerOrder, outcome.RunnerName)
	}
	// Registration never blocks counting; a structured outcome turns the
	// sentinel entry back into a real group mapping.
	entry.unsupported = false

	stat, created := entry.group(outcome.GroupName)
	if created {
		r.printGroupTitle(outcome)
	}

	r.updateStats(outcome, stat)
	r.printResult(outcome, stat)
	return nil
}

// updateStats applies the status update rule to the group's RunStat and
// mirrors passed/failed counts and the error flag into the global stats.
func (r *Reporter) updateStats(outcome *types.TestOutcome, stat *RunStat) {
	switch outcome.Status {
	case types.TestStatusPassed:
		stat.Passed++
		r.stats.Passed++
	case types.TestStatusFailed:
		stat.Failed++
		r.stats.Failed++
		r.stats.FailedTests = append(r.stats.FailedTests, outcome.TestName)
	case types.TestStatusIgnored:
		stat.Ignored++
	case types.TestStatusAssumptionFailed:
		stat.AssumptionFailed++
	case types.TestStatusError:
		stat.RunErrors = true
		r.stats.RunErrors = true
		if outcome.Details != "" {
			r.errorDetails = append(r.errorDetails, errorDetail{
				runner:  outcome.RunnerName,
				group:   outcome.GroupName,
				details: outcome.Details,
			})
		}
		if r.policy == ErrorCountsAsFailure && outcome.TestName != "" {
			stat.Failed++
			r.stats.Failed++
			r.stats.FailedTests = append(r.stats.FailedTests, outcome.TestName)
		}
	}
}

// printGroupTitle emits the banner marking the first outcome of a new
// (runner, group) pair. The synthetic runner-scoped group has no banner.
func (r *Reporter) printGroupTitle(outcome *types.TestOutcome) {
	if outcome.GroupName == "" {
		return
	}
	title := outcome.GroupName
	if outcome.TestCount > 0 {
		title = fmt.Sprintf("%s (%d %s)", title, outcome.TestCount,
			pluralize("Test", outcome.TestCount))
	}
	fmt.Fprintf(r.out, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

// printResult writes the one-line live progress record for a single outcome,
// preceded by a run-name banner whenever the run name changes.
func (r *Reporter) printResult(outcome *types.TestOutcome, stat *RunStat) {
	if outcome.TestRunName != r.lastRunName || !r.sawFirstResult {
		if outcome.TestRunName != "" {
			fmt.Fprintf(r.out, "%s (%s)\n", outcome.TestRunName, outcome.RunnerName)
		}
		r.lastRunName = outcome.TestRunName
		r.sawFirstResult = true
	}

	if outcome.TestName == "" {
		// Run/invocation-level event; the summary replays the details.
		fmt.Fprintf(r.out, "%s %s\n", statusGlyph(outcome.Status), outcome.RunnerName)
		return
	}

	line := fmt.Sprintf("[%s] %s %s", r.progressFraction(outcome, stat),
		statusGlyph(outcome.Status), outcome.TestName)
	if outcome.TestTime != "" {
		line += " " + outcome.TestTime
	}
	fmt.Fprintln(r.out, line)
}

// progressFraction renders the running x/N indicator, preferring the group
// denominator over the runner-wide one when both are present.
func (r *Reporter) progressFraction(outcome *types.TestOutcome, stat *RunStat) string {
	done := stat.Total()
	switch {
	case outcome.GroupTotal > 0:
		return fmt.Sprintf("%d/%d", done, outcome.GroupTotal)
	case outcome.RunnerTotal > 0:
		return fmt.Sprintf("%d/%d", done, outcome.RunnerTotal)
	default:
		return fmt.Sprintf("%d", done)
	}
}

// Stats returns the session-wide totals accumulated so far.
func (r *Reporter) Stats() GlobalStats {
	return r.stats
}

// RunnerNames returns the runner identifiers in first-sight order.
func (r *Reporter) RunnerNames() []string {
	names := make([]string, len(r.runnerOrder))
	copy(names, r.runnerOrder)
	return names
}

// GroupStat returns the RunStat for the (runner, group) pair, or nil when
// the pair was never seen. The empty group name addresses the synthetic
// runner-scoped bucket.
func (r *Reporter) GroupStat(runnerName, groupName string) *RunStat {
	entry, ok := r.runners[runnerName]
	if !ok {
		return nil
	}
	return entry.groups[groupName]
}

// statusGlyph returns the colored marker used in progress lines.
func statusGlyph(status types.TestStatus) string {
	switch status {
	case types.TestStatusPassed:
		return text.FgGreen.Sprint("✓")
	case types.TestStatusFailed:
		return text.FgRed.Sprint("✗")
	case types.TestStatusIgnored:
		return text.FgYellow.Sprint("-")
	case types.TestStatusAssumptionFailed:
		return text.FgYellow.Sprint("~")
	default:
		return text.FgRed.Sprint("!")
	}
}

func pluralize(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
