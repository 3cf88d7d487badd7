package reporter

// RunStat accumulates per-group statistics. One RunStat exists per
// (runner, group) pair for the lifetime of a Reporter; counters only ever
// increase and RunErrors is never cleared once set.
type RunStat struct {
	Passed           int
	Failed           int
	Ignored          int
	AssumptionFailed int
	// RunErrors reports whether a run-level error was scoped to this group
	// or its runner. ERROR outcomes set the flag without touching counters.
	RunErrors bool
}

// Total is derived from the four status counters. ERROR outcomes do not
// contribute.
func (s *RunStat) Total() int {
	return s.Passed + s.Failed + s.Ignored + s.AssumptionFailed
}

// GlobalStats holds session-wide totals across all runners and groups.
type GlobalStats struct {
	Passed    int
	Failed    int
	RunErrors bool
	// FailedTests lists the test name of every FAILED outcome in arrival
	// order. Duplicates are preserved.
	FailedTests []string
}

// runnerEntry is a tagged variant per runner: either the unsupported-runner
// sentinel, or an ordered mapping from group name to its RunStat. The empty
// group name is the synthetic bucket for runner-scoped events.
type runnerEntry struct {
	unsupported bool
	groups      map[string]*RunStat
	groupOrder  []string
}

func newRunnerEntry() *runnerEntry {
	return &runnerEntry{groups: make(map[string]*RunStat)}
}

// group returns the RunStat for name, creating it on first access.
// created reports whether this call created the entry.
func (e *runnerEntry) group(name string) (stat *RunStat, created bool) {
	if s, ok := e.groups[name]; ok {
		return s, false
	}
	s := &RunStat{}
	e.groups[name] = s
	e.groupOrder = append(e.groupOrder, name)
	return s, true
}

// Unsupported reports whether the runner was registered as unsupported and
// never produced a structured outcome.
func (e *runnerEntry) Unsupported() bool {
	return e.unsupported
}
