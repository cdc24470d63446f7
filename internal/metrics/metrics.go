// Package metrics instruments solver calls and scenario outcomes with
// prometheus collectors on a private registry. A batch run has no scrape
// endpoint, so the registry is flushed to a node-exporter textfile at exit.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/lvplan/lp"
)

const namespace = "lvplan"

// Recorder owns the collectors.
type Recorder struct {
	reg *prometheus.Registry

	solveSeconds *prometheus.HistogramVec
	solves       *prometheus.CounterVec
	columns      *prometheus.GaugeVec
	rows         *prometheus.GaugeVec
	nodes        *prometheus.GaugeVec
	scenarios    *prometheus.CounterVec
}

// New registers every collector on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		solveSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Wall time of one engine Solve call.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"model"}),
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solves_total",
			Help:      "Engine Solve calls by model and outcome status.",
		}, []string{"model", "status"}),
		columns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_columns",
			Help:      "Variables of the last solved problem.",
		}, []string{"model"}),
		rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_rows",
			Help:      "Constraints of the last solved problem.",
		}, []string{"model"}),
		nodes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_nodes",
			Help:      "Branch-and-bound nodes of the last solve.",
		}, []string{"model"}),
		scenarios: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scenarios_total",
			Help:      "Scenario runs by name and success.",
		}, []string{"scenario", "ok"}),
	}
	r.reg.MustRegister(r.solveSeconds, r.solves, r.columns, r.rows, r.nodes, r.scenarios)
	return r
}

// Registry exposes the registry for tests and additional collectors.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Wrap returns an engine that records every Solve of eng under the problem name.
// Engine errors are counted with status "error".
func (r *Recorder) Wrap(eng lp.Engine) lp.Engine {
	return lp.EngineFunc(func(ctx context.Context, p *lp.Problem) (*lp.Result, error) {
		model := p.Name
		r.columns.WithLabelValues(model).Set(float64(p.NumCols()))
		r.rows.WithLabelValues(model).Set(float64(p.NumRows()))

		start := time.Now()
		res, err := eng.Solve(ctx, p)
		r.solveSeconds.WithLabelValues(model).Observe(time.Since(start).Seconds())
		if err != nil {
			r.solves.WithLabelValues(model, "error").Inc()
			return nil, err
		}
		r.solves.WithLabelValues(model, res.Status.String()).Inc()
		r.nodes.WithLabelValues(model).Set(float64(res.Nodes))
		return res, nil
	})
}

// Scenario counts one scenario outcome.
func (r *Recorder) Scenario(name string, ok bool) {
	r.scenarios.WithLabelValues(name, strconv.FormatBool(ok)).Inc()
}

// WriteTextfile writes the registry in text exposition format, atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
