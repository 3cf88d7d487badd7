package types

import (
	"fmt"
	"strings"
)

// TestStatus represents the possible outcomes reported for a single test event
type TestStatus string

const (
	TestStatusPassed           TestStatus = "PASSED"
	TestStatusFailed           TestStatus = "FAILED"
	TestStatusIgnored          TestStatus = "IGNORED"
	TestStatusAssumptionFailed TestStatus = "ASSUMPTION_FAILED"
	// TestStatusError covers both a single test erroring and the whole
	// run/invocation failing. The two cases are told apart by the presence
	// of TestName/GroupName on the outcome.
	TestStatusError TestStatus = "ERROR"
)

// IsValid reports whether s is one of the recognized statuses.
func (s TestStatus) IsValid() bool {
	switch s {
	case TestStatusPassed, TestStatusFailed, TestStatusIgnored,
		TestStatusAssumptionFailed, TestStatusError:
		return true
	}
	return false
}

// TestOutcome is a single reported event from a test-execution driver: either
// an individual test's result, or a group/run-level failure when TestName
// (and possibly GroupName) is empty.
type TestOutcome struct {
	RunnerName string     `json:"runner_name"`
	GroupName  string     `json:"group_name,omitempty"`
	TestName   string     `json:"test_name,omitempty"`
	Status     TestStatus `json:"status"`
	Details    string     `json:"details,omitempty"`

	// TestCount is the total tests expected in this group; only meaningful
	// on the first event for a group.
	TestCount int `json:"test_count,omitempty"`
	// TestTime is a pre-formatted elapsed-time string, e.g. "(10ms)".
	TestTime string `json:"test_time,omitempty"`

	// Denominators for x/N progress display.
	GroupTotal  int `json:"group_total,omitempty"`
	RunnerTotal int `json:"runner_total,omitempty"`

	AdditionalInfo map[string]string `json:"additional_info,omitempty"`

	// TestRunName identifies the overarching invocation; a change between
	// consecutive outcomes triggers a run-name banner.
	TestRunName string `json:"test_run_name,omitempty"`
}

// Validate checks that the outcome carries the identifiers required to
// resolve a counting context. An empty group name is explicitly supported
// (runner-scoped events), but the runner name is always mandatory, and any
// status other than ERROR must name a concrete test.
func (o *TestOutcome) Validate() error {
	if strings.TrimSpace(o.RunnerName) == "" {
		return fmt.Errorf("outcome is missing a runner name")
	}
	if !o.Status.IsValid() {
		return fmt.Errorf("outcome for runner %q has unknown status %q", o.RunnerName, o.Status)
	}
	if o.Status != TestStatusError && o.TestName == "" {
		return fmt.Errorf("%s outcome for runner %q is missing a test name", o.Status, o.RunnerName)
	}
	return nil
}

// IsRunLevel reports whether the outcome describes a run/invocation-level
// failure rather than an individual test's result.
func (o *TestOutcome) IsRunLevel() bool {
	return o.Status == TestStatusError && o.TestName == "" && o.GroupName == ""
}
