package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "bookbuilder"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	buildDuration   prom.Histogram
	pageDuration    *prom.HistogramVec
	pageResults     *prom.CounterVec
	sectionDefects  *prom.CounterVec
	sectionReloads  prom.Counter
	buildOutcome    *prom.CounterVec
	liveReloadConns prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them with reg,
// or with a fresh registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Duration of a full build pass",
			Buckets:   prom.DefBuckets,
		}),
		pageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "page_duration_seconds",
			Help:      "Duration of building a single page",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"page"}),
		pageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "page_results_total",
			Help:      "Pages processed by result",
		}, []string{"result"}),
		sectionDefects: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "section_defects_total",
			Help:      "Undefined, reused and unused code sections found",
		}, []string{"kind"}),
		sectionReloads: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "section_reloads_total",
			Help:      "Times the code sections were reloaded",
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build passes by final status",
		}, []string{"outcome"}),
		liveReloadConns: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "livereload_clients",
			Help:      "Connected live reload clients",
		}),
	}
	reg.MustRegister(pr.buildDuration, pr.pageDuration, pr.pageResults, pr.sectionDefects,
		pr.sectionReloads, pr.buildOutcome, pr.liveReloadConns)
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObservePageDuration(page string, d time.Duration) {
	if p == nil {
		return
	}
	p.pageDuration.WithLabelValues(page).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPageResult(result PageResult) {
	if p == nil {
		return
	}
	p.pageResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) AddSectionDefects(kind DefectKind, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.sectionDefects.WithLabelValues(string(kind)).Add(float64(n))
}

func (p *PrometheusRecorder) IncSectionReloads() {
	if p == nil {
		return
	}
	p.sectionReloads.Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcome) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetLiveReloadClients(n int) {
	if p == nil {
		return
	}
	p.liveReloadConns.Set(float64(n))
}
