package metrics

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	MetricsNamespace = "asuite"
)

var (
	Debug                bool = true
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	testRunResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "test_run_results",
		Help:      "Result of a test run",
	}, []string{
		"run_id",
		"result",
	})

	testRunTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "test_run_total",
		Help:      "Total number of counted tests in a run",
	}, []string{
		"run_id",
	})

	testRunPassed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "test_run_passed",
		Help:      "Number of passed tests in a run",
	}, []string{
		"run_id",
	})

	testRunFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "test_run_failed",
		Help:      "Number of failed tests in a run",
	}, []string{
		"run_id",
	})

	testRunDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "test_run_duration",
		Help:      "Duration of a test run in seconds",
	}, []string{
		"run_id",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

// RecordTestRun records the aggregate outcome of one reporting session.
func RecordTestRun(runID string, passed, failed int, runErrors bool, duration time.Duration) {
	result := "pass"
	if failed > 0 {
		result = "fail"
	}
	if runErrors {
		result = "error"
	}
	if Debug {
		log.Debug("metric record",
			"m", "test_run_results",
			"run_id", runID,
			"result", result,
			"passed", passed,
			"failed", failed,
			"duration", duration)
	}
	testRunResults.WithLabelValues(runID, result).Set(1)
	testRunTotal.WithLabelValues(runID).Add(float64(passed + failed))
	testRunPassed.WithLabelValues(runID).Add(float64(passed))
	testRunFailed.WithLabelValues(runID).Add(float64(failed))
	testRunDuration.WithLabelValues(runID).Set(duration.Seconds())
}
