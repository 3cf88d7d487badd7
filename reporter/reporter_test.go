package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TinkerBoard2-Android/tools-asuite/exitcodes"
	"github.com/TinkerBoard2-Android/tools-asuite/types"
)

func passedOutcome(runner, group, test string) *types.TestOutcome {
	return &types.TestOutcome{
		RunnerName:  runner,
		GroupName:   group,
		TestName:    test,
		Status:      types.TestStatusPassed,
		TestCount:   1,
		TestTime:    "(10ms)",
		GroupTotal:  2,
		TestRunName: "com.android.UnitTests",
	}
}

func failedOutcome(runner, group, test string) *types.TestOutcome {
	return &types.TestOutcome{
		RunnerName:  runner,
		GroupName:   group,
		TestName:    test,
		Status:      types.TestStatusFailed,
		Details:     "someTrace",
		GroupTotal:  2,
		TestRunName: "com.android.UnitTests",
	}
}

func newTestReporter(opts ...Option) (*Reporter, *bytes.Buffer) {
	var buf bytes.Buffer
	opts = append([]Option{WithOutput(&buf)}, opts...)
	return New(opts...), &buf
}

func TestProcessTestResult(t *testing.T) {
	r, out := newTestReporter()

	// First outcome creates the runner and group entries.
	require.NoError(t, r.ProcessTestResult(passedOutcome("someTestRunner", "someTestModule", "someClassName#someTestName")))
	stat := r.GroupStat("someTestRunner", "someTestModule")
	require.NotNil(t, stat)
	assert.Equal(t, 1, stat.Passed)
	assert.Contains(t, out.String(), "someTestModule")

	// Repeated events for the same pair mutate the same accumulator and
	// print the group title only once.
	out.Reset()
	require.NoError(t, r.ProcessTestResult(failedOutcome("someTestRunner", "someTestModule", "someClassName2#someTestName2")))
	assert.Same(t, stat, r.GroupStat("someTestRunner", "someTestModule"))
	assert.NotContains(t, out.String(), "someTestModule\n---")

	// A new group within the same runner gets its own entry and banner.
	out.Reset()
	require.NoError(t, r.ProcessTestResult(passedOutcome("someTestRunner", "someTestModule2", "someClassName#someTestName")))
	require.NotNil(t, r.GroupStat("someTestRunner", "someTestModule2"))
	assert.Contains(t, out.String(), "someTestModule2")

	// A runner-scoped outcome (no group) lands in the synthetic bucket and
	// emits no group banner.
	out.Reset()
	require.NoError(t, r.ProcessTestResult(passedOutcome("someTestRunner2", "", "someClassName#someTestName")))
	require.NotNil(t, r.GroupStat("someTestRunner2", ""))
	assert.NotContains(t, out.String(), "---")

	assert.Equal(t, []string{"someTestRunner", "someTestRunner2"}, r.RunnerNames())
}

func TestUpdateStatsPassed(t *testing.T) {
	r, _ := newTestReporter()

	require.NoError(t, r.ProcessTestResult(passedOutcome("R1", "M1", "t1")))
	require.NoError(t, r.ProcessTestResult(passedOutcome("R1", "M2", "t1")))

	stats := r.Stats()
	assert.Equal(t, 2, stats.Passed)
	assert.Equal(t, 0, stats.Failed)
	assert.False(t, stats.RunErrors)
	assert.Empty(t, stats.FailedTests)

	m1 := r.GroupStat("R1", "M1")
	assert.Equal(t, 1, m1.Passed)
	assert.Equal(t, 1, m1.Total())
	m2 := r.GroupStat("R1", "M2")
	assert.Equal(t, 1, m2.Passed)
	assert.Equal(t, 1, m2.Total())
}

func TestUpdateStatsFailed(t *testing.T) {
	r, _ := newTestReporter()

	require.NoError(t, r.ProcessTestResult(passedOutcome("R1", "M1", "t1")))
	require.NoError(t, r.ProcessTestResult(failedOutcome("R1", "M1", "someClassName2#someTestName2")))

	stats := r.Stats()
	assert.Equal(t, 1, stats.Passed)
	assert.Equal(t, 1, stats.Failed)
	assert.False(t, stats.RunErrors)
	assert.Equal(t, []string{"someClassName2#someTestName2"}, stats.FailedTests)

	m1 := r.GroupStat("R1", "M1")
	assert.Equal(t, 1, m1.Passed)
	assert.Equal(t, 1, m1.Failed)
	assert.Equal(t, 2, m1.Total())
	assert.False(t, m1.RunErrors)
}

func TestUpdateStatsRunError(t *testing.T) {
	r, _ := newTestReporter()

	require.NoError(t, r.ProcessTestResult(passedOutcome("R1", "M1", "t1")))
	require.NoError(t, r.ProcessTestResult(failedOutcome("R1", "M1", "t2")))

	// Group-scoped ERROR that names a test: only the flags move. The
	// reference reporter leaves failed and failed_tests untouched here.
	runFailure := &types.TestOutcome{
		RunnerName: "R1",
		GroupName:  "M1",
		TestName:   "t1",
		Status:     types.TestStatusError,
		Details:    "someRunFailureReason",
	}
	require.NoError(t, r.ProcessTestResult(runFailure))

	stats := r.Stats()
	assert.Equal(t, 1, stats.Passed)
	assert.Equal(t, 1, stats.Failed)
	assert.True(t, stats.RunErrors)
	assert.Equal(t, []string{"t2"}, stats.FailedTests)

	m1 := r.GroupStat("R1", "M1")
	assert.Equal(t, 1, m1.Passed)
	assert.Equal(t, 1, m1.Failed)
	assert.Equal(t, 2, m1.Total())
	assert.True(t, m1.RunErrors)

	// Invocation-level ERROR: no group, no test. The synthetic bucket
	// carries the flag and counters stay where they were.
	invocationFailure := &types.TestOutcome{
		RunnerName: "R1",
		Status:     types.TestStatusError,
		Details:    "someInvocationFailureReason",
	}
	require.NoError(t, r.ProcessTestResult(invocationFailure))

	stats = r.Stats()
	assert.Equal(t, 1, stats.Passed)
	assert.Equal(t, 1, stats.Failed)
	assert.True(t, stats.RunErrors)

	synthetic := r.GroupStat("R1", "")
	require.NotNil(t, synthetic)
	assert.Equal(t, 0, synthetic.Total())
	assert.True(t, synthetic.RunErrors)
}

func TestRunErrorsNeverReset(t *testing.T) {
	r, _ := newTestReporter()

	require.NoError(t, r.ProcessTestResult(&types.TestOutcome{
		RunnerName: "R1",
		GroupName:  "M1",
		Status:     types.TestStatusError,
	}))
	require.True(t, r.GroupStat("R1", "M1").RunErrors)
	require.True(t, r.Stats().RunErrors)

	require.NoError(t, r.ProcessTestResult(passedOutcome("R1", "M1", "t1")))
	require.NoError(t, r.ProcessTestResult(&types.TestOutcome{
		RunnerName: "R1", GroupName: "M1", TestName: "t2", Status: types.TestStatusIgnored,
	}))

	assert.True(t, r.GroupStat("R1", "M1").RunErrors)
	assert.True(t, r.Stats().RunErrors)
}

func TestUpdateStatsIgnoredAndAssumptionFailed(t *testing.T) {
	r, _ := newTestReporter()

	ignored := &types.TestOutcome{
		RunnerName: "R1", GroupName: "M1", TestName: "t1", Status: types.TestStatusIgnored,
	}
	assumption := &types.TestOutcome{
		RunnerName: "R1", GroupName: "M1", TestName: "t1", Status: types.TestStatusAssumptionFailed,
	}

	require.NoError(t, r.ProcessTestResult(ignored))
	require.NoError(t, r.ProcessTestResult(ignored))
	require.NoError(t, r.ProcessTestResult(assumption))
	require.NoError(t, r.ProcessTestResult(assumption))

	m1 := r.GroupStat("R1", "M1")
	assert.Equal(t, 2, m1.Ignored)
	assert.Equal(t, 2, m1.AssumptionFailed)
	assert.Equal(t, 4, m1.Total())

	// Neither status affects the global pass/fail totals or the exit code.
	stats := r.Stats()
	assert.Equal(t, 0, stats.Passed)
	assert.Equal(t, 0, stats.Failed)
	assert.Equal(t, exitcodes.Success, r.ExitCode())
}

func TestRegisterUnsupportedRunner(t *testing.T) {
	r, _ := newTestReporter()

	r.RegisterUnsupportedRunner("NotSupported")
	r.RegisterUnsupportedRunner("NotSupported") // idempotent
	assert.Equal(t, []string{"NotSupported"}, r.RunnerNames())

	// Registration is advisory; outcomes for the runner are still counted.
	require.NoError(t, r.ProcessTestResult(passedOutcome("NotSupported", "M1", "t1")))
	stat := r.GroupStat("NotSupported", "M1")
	require.NotNil(t, stat)
	assert.Equal(t, 1, stat.Passed)
}

func TestPrintSummaryExitCode(t *testing.T) {
	r, _ := newTestReporter()

	require.NoError(t, r.ProcessTestResult(passedOutcome("R1", "M1", "t1")))
	assert.Equal(t, exitcodes.Success, r.PrintSummary())

	require.NoError(t, r.ProcessTestResult(failedOutcome("R1", "M1", "t2")))
	assert.Equal(t, exitcodes.TestFailure, r.PrintSummary())

	// More passing tests do not flip the signal back.
	require.NoError(t, r.ProcessTestResult(passedOutcome("R1", "M2", "t1")))
	assert.Equal(t, exitcodes.TestFailure, r.PrintSummary())
}

func TestPrintSummaryExitCodeRunError(t *testing.T) {
	r, _ := newTestReporter()

	require.NoError(t, r.ProcessTestResult(passedOutcome("R1", "M1", "t1")))
	assert.Equal(t, exitcodes.Success, r.PrintSummary())

	require.NoError(t, r.ProcessTestResult(&types.TestOutcome{
		RunnerName: "R1",
		Status:     types.TestStatusError,
		Details:    "harness crashed",
	}))
	assert.Equal(t, exitcodes.RuntimeErr, r.PrintSummary())

	require.NoError(t, r.ProcessTestResult(passedOutcome("R1", "M2", "t1")))
	assert.Equal(t, exitcodes.RuntimeErr, r.PrintSummary())
}

func TestPrintSummaryContent(t *testing.T) {
	r, out := newTestReporter()

	require.NoError(t, r.ProcessTestResult(passedOutcome("R1", "M1", "t1")))
	require.NoError(t, r.ProcessTestResult(failedOutcome("R1", "M1", "someClass#someFail")))
	require.NoError(t, r.ProcessTestResult(&types.TestOutcome{
		RunnerName: "R1",
		Status:     types.TestStatusError,
		Details:    "someInvocationFailureReason",
	}))
	r.RegisterUnsupportedRunner("vts")

	out.Reset()
	r.PrintSummary()
	rendered := out.String()

	assert.Contains(t, rendered, "Test Results Summary")
	assert.Contains(t, rendered, "M1")
	assert.Contains(t, rendered, "Failed tests (1):")
	assert.Contains(t, rendered, "someClass#someFail")
	assert.Contains(t, rendered, "Run errors (1):")
	assert.Contains(t, rendered, "someInvocationFailureReason")
	assert.Contains(t, rendered, "unsupported runner")
}

func TestRunNameBanner(t *testing.T) {
	r, out := newTestReporter()

	first := passedOutcome("R1", "M1", "t1")
	require.NoError(t, r.ProcessTestResult(first))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	// Group title precedes results; the run-name banner is the first
	// progress line after it.
	assert.Contains(t, out.String(), "com.android.UnitTests")
	require.NotEmpty(t, lines)

	// Same run name: no new banner.
	out.Reset()
	require.NoError(t, r.ProcessTestResult(passedOutcome("R1", "M1", "t2")))
	assert.NotContains(t, out.String(), "com.android.UnitTests")

	// Changed run name: banner again, on the first line.
	out.Reset()
	changed := passedOutcome("R1", "M1", "t3")
	changed.TestRunName = "com.android.UnitTests2"
	require.NoError(t, r.ProcessTestResult(changed))
	lines = strings.Split(strings.TrimSpace(out.String()), "\n")
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "com.android.UnitTests2")
}

func TestErrorPolicyCountsAsFailure(t *testing.T) {
	r, _ := newTestReporter(WithErrorPolicy(ErrorCountsAsFailure))

	require.NoError(t, r.ProcessTestResult(&types.TestOutcome{
		RunnerName: "R1",
		GroupName:  "M1",
		TestName:   "crashingTest",
		Status:     types.TestStatusError,
		Details:    "test-level crash",
	}))

	stats := r.Stats()
	assert.True(t, stats.RunErrors)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, []string{"crashingTest"}, stats.FailedTests)
	assert.Equal(t, 1, r.GroupStat("R1", "M1").Failed)

	// Invocation-level errors carry no test name and are never counted,
	// regardless of policy.
	require.NoError(t, r.ProcessTestResult(&types.TestOutcome{
		RunnerName: "R1",
		Status:     types.TestStatusError,
	}))
	assert.Equal(t, 1, r.Stats().Failed)
}

func TestMalformedOutcomeRejected(t *testing.T) {
	r, _ := newTestReporter()

	tests := []struct {
		name    string
		outcome *types.TestOutcome
	}{
		{
			name:    "missing runner name",
			outcome: &types.TestOutcome{GroupName: "M1", TestName: "t1", Status: types.TestStatusPassed},
		},
		{
			name:    "unknown status",
			outcome: &types.TestOutcome{RunnerName: "R1", TestName: "t1", Status: "EXPLODED"},
		},
		{
			name:    "countable status without test name",
			outcome: &types.TestOutcome{RunnerName: "R1", GroupName: "M1", Status: types.TestStatusPassed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.ProcessTestResult(tt.outcome)
			require.Error(t, err)
		})
	}

	// Rejected outcomes leave the state untouched.
	stats := r.Stats()
	assert.Equal(t, 0, stats.Passed)
	assert.Equal(t, 0, stats.Failed)
	assert.False(t, stats.RunErrors)
	assert.Empty(t, r.RunnerNames())
}

func TestProgressFractionUsesGroupTotal(t *testing.T) {
	r, out := newTestReporter()

	o := passedOutcome("R1", "M1", "t1")
	o.GroupTotal = 2
	require.NoError(t, r.ProcessTestResult(o))
	assert.Contains(t, out.String(), "[1/2]")

	out.Reset()
	o2 := passedOutcome("R1", "M1", "t2")
	o2.GroupTotal = 2
	require.NoError(t, r.ProcessTestResult(o2))
	assert.Contains(t, out.String(), "[2/2]")

	// Runner total is the fallback denominator.
	out.Reset()
	o3 := passedOutcome("R1", "M2", "t1")
	o3.GroupTotal = 0
	o3.RunnerTotal = 5
	require.NoError(t, r.ProcessTestResult(o3))
	assert.Contains(t, out.String(), "[1/5]")
}
