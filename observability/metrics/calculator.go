package metrics

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels shared by the calculator counters.
const (
	OutcomeOK      = "ok"
	OutcomeBlocked = "blocked"
	OutcomeError   = "error"
)

// CalculatorMetrics counts calculator calls, blocked actions and fee quotes.
type CalculatorMetrics struct {
	operations *prometheus.CounterVec
	blocked    *prometheus.CounterVec
	feeQuotes  *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

var (
	calculatorOnce     sync.Once
	calculatorRegistry *CalculatorMetrics
)

// Calculator returns the process-wide metrics registered on the default
// Prometheus registry.
func Calculator() *CalculatorMetrics {
	calculatorOnce.Do(func() {
		calculatorRegistry = NewCalculatorMetrics(prometheus.DefaultRegisterer)
	})
	return calculatorRegistry
}

// NewCalculatorMetrics builds the vectors and registers them on reg.
func NewCalculatorMetrics(reg prometheus.Registerer) *CalculatorMetrics {
	m := &CalculatorMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lendcore",
			Subsystem: "calculator",
			Name:      "operations_total",
			Help:      "Calculator calls segmented by operation and outcome.",
		}, []string{"operation", "outcome"}),
		blocked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lendcore",
			Subsystem: "calculator",
			Name:      "blocked_total",
			Help:      "Borrow and deposit checks rejected, by validation issue.",
		}, []string{"issue"}),
		feeQuotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lendcore",
			Subsystem: "calculator",
			Name:      "fee_quotes_total",
			Help:      "Swap fee quotes issued, by route class and integrator key.",
		}, []string{"class", "integrator"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lendcore",
			Subsystem: "calculator",
			Name:      "operation_duration_seconds",
			Help:      "Latency of calculator calls.",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		}, []string{"operation"}),
	}
	if reg != nil {
		reg.MustRegister(m.operations, m.blocked, m.feeQuotes, m.latency)
	}
	return m
}

// ObserveOperation records a finished calculator call.
func (m *CalculatorMetrics) ObserveOperation(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	operation = labelOrUnknown(operation)
	m.operations.WithLabelValues(operation, labelOrUnknown(outcome)).Inc()
	m.latency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveBlocked records a rejected action by its validation issue name.
func (m *CalculatorMetrics) ObserveBlocked(issue string) {
	if m == nil {
		return
	}
	m.blocked.WithLabelValues(labelOrUnknown(issue)).Inc()
}

// ObserveFeeQuote records a quote issued for a route class.
func (m *CalculatorMetrics) ObserveFeeQuote(class, integrator string) {
	if m == nil {
		return
	}
	m.feeQuotes.WithLabelValues(labelOrUnknown(class), labelOrUnknown(integrator)).Inc()
}

// Operations exposes the operations vector for tests and textfile export.
func (m *CalculatorMetrics) Operations() *prometheus.CounterVec { return m.operations }

// Blocked exposes the blocked vector.
func (m *CalculatorMetrics) Blocked() *prometheus.CounterVec { return m.blocked }

// FeeQuotes exposes the fee quote vector.
func (m *CalculatorMetrics) FeeQuotes() *prometheus.CounterVec { return m.feeQuotes }

// WriteTextfile dumps everything gathered by g in the node exporter textfile
// format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("metrics: textfile path required")
	}
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("metrics: write textfile: %w", err)
	}
	return nil
}

func labelOrUnknown(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "unknown"
	}
	return v
}
