// Package runner bridges an external test-execution driver's event stream
// and the result aggregator. It owns the serialization boundary: outcomes
// are pushed into the reporter strictly sequentially from one control flow.
package runner

import (
	"context"
	"io"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"

	"github.com/TinkerBoard2-Android/tools-asuite/metrics"
	"github.com/TinkerBoard2-Android/tools-asuite/reporter"
	"github.com/TinkerBoard2-Android/tools-asuite/types"
)

// Driver pumps a decoded outcome stream into a Reporter and records run
// metrics when the stream ends.
type Driver struct {
	reporter *reporter.Reporter
	parser   *Parser
	logger   log.Logger
	runID    string
}

// NewDriver creates a Driver feeding rep. A fresh run ID is minted per
// driver; it labels metrics and the log directory for this invocation.
func NewDriver(rep *reporter.Reporter, logger log.Logger) *Driver {
	return NewDriverWithID(rep, logger, uuid.New().String())
}

// NewDriverWithID creates a Driver reusing an externally minted run ID, so
// the caller can label its log directory with the same identifier.
func NewDriverWithID(rep *reporter.Reporter, logger log.Logger, runID string) *Driver {
	return &Driver{
		reporter: rep,
		parser:   NewParser(),
		logger:   logger,
		runID:    runID,
	}
}

// RunID returns the identifier minted for this invocation.
func (d *Driver) RunID() string {
	return d.runID
}

// Run consumes the outcome stream until EOF, context cancellation, or the
// first malformed event. Each decoded outcome is handed to the reporter
// before the next line is read, so progress output interleaves naturally
// with the driver's own production of events.
func (d *Driver) Run(ctx context.Context, stream io.Reader) error {
	start := time.Now()
	d.logger.Info("Processing test results", "runID", d.runID)

	count := 0
	err := d.parser.ParseFunc(stream, func(o *types.TestOutcome) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		count++
		return d.reporter.ProcessTestResult(o)
	})

	stats := d.reporter.Stats()
	metrics.RecordTestRun(d.runID, stats.Passed, stats.Failed, stats.RunErrors, time.Since(start))
	d.logger.Info("Finished processing test results",
		"runID", d.runID,
		"events", count,
		"passed", stats.Passed,
		"failed", stats.Failed,
		"runErrors", stats.RunErrors,
		"duration", time.Since(start))

	if err != nil {
		metrics.RecordErrorDetails("outcome stream", err)
		return err
	}
	return nil
}
