package metrics

import (
	"authscan/internal/feature"
	"authscan/internal/types"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "authscan"

// Recorder holds the counters for a single run on a private registry,
// so repeated runs in one process never share values.
type Recorder struct {
	reg *prometheus.Registry

	LinesProcessed  prometheus.Counter
	MalformedLines  prometheus.Counter
	FailedLogins    prometheus.Counter
	DistinctUsers   prometheus.Gauge
	SuspiciousUsers prometheus.Gauge
	UserFailures    *prometheus.GaugeVec
	Threshold       prometheus.Gauge
}

// NewRecorder creates a recorder with all collectors registered
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		reg: reg,
		LinesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_processed_total",
			Help:      "Total number of log lines read",
		}),
		MalformedLines: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_lines_total",
			Help:      "Lines skipped because they did not have four fields",
		}),
		FailedLogins: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failed_logins_total",
			Help:      "Number of LOGIN_FAILED entries",
		}),
		DistinctUsers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "distinct_users",
			Help:      "Distinct users seen in valid entries",
		}),
		SuspiciousUsers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "suspicious_users",
			Help:      "Users whose failed-login count met the threshold",
		}),
		UserFailures: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "suspicious_user_failed_logins",
			Help:      "Failed logins per suspicious user",
		}, []string{"user", "risk"}),
		Threshold: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "failed_login_threshold",
			Help:      "Configured failed-login threshold",
		}),
	}
}

// Observe records the final state of a run
func (r *Recorder) Observe(totals feature.Totals, findings []types.Finding, threshold int) {
	r.LinesProcessed.Add(float64(totals.Lines))
	r.MalformedLines.Add(float64(totals.Malformed))
	r.FailedLogins.Add(float64(totals.FailedLogins))
	r.DistinctUsers.Set(float64(totals.DistinctUsers))
	r.SuspiciousUsers.Set(float64(len(findings)))
	r.Threshold.Set(float64(threshold))

	for _, f := range findings {
		r.UserFailures.WithLabelValues(f.User, string(f.Risk)).Set(float64(f.FailedLogins))
	}
}

// WriteTextfile writes the registry in the node_exporter textfile format
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
