package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time checks.
var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	assert.NotPanics(t, func() {
		r.ObserveBuildDuration(time.Second)
		r.ObservePageDuration("strings", time.Millisecond)
		r.IncPageResult(PageBuilt)
		r.AddSectionDefects(DefectUnused, 2)
		r.IncSectionReloads()
		r.IncBuildOutcome(BuildSuccess)
		r.SetLiveReloadClients(3)
	})
}

func TestNilPrometheusRecorder(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.IncPageResult(PageBuilt)
		pr.SetLiveReloadClients(1)
	})
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.ObservePageDuration("strings", 15*time.Millisecond)
	pr.IncPageResult(PageBuilt)
	pr.IncPageResult(PageBuilt)
	pr.IncPageResult(PageSkipped)
	pr.AddSectionDefects(DefectUnused, 2)
	pr.AddSectionDefects(DefectReused, 0)
	pr.IncSectionReloads()
	pr.IncBuildOutcome(BuildWarning)
	pr.SetLiveReloadClients(4)

	values := gatherCounters(t, reg)
	assert.InDelta(t, 2, values["bookbuilder_page_results_total{result=built}"], 0)
	assert.InDelta(t, 1, values["bookbuilder_page_results_total{result=skipped}"], 0)
	assert.InDelta(t, 2, values["bookbuilder_section_defects_total{kind=unused}"], 0)
	assert.NotContains(t, values, "bookbuilder_section_defects_total{kind=reused}")
	assert.InDelta(t, 1, values["bookbuilder_section_reloads_total"], 0)
	assert.InDelta(t, 1, values["bookbuilder_build_outcomes_total{outcome=warning}"], 0)
	assert.InDelta(t, 4, values["bookbuilder_livereload_clients"], 0)
}

// gatherCounters flattens counters and gauges into "name{label=value}" keys.
func gatherCounters(t *testing.T, reg *prom.Registry) map[string]float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, label := range m.GetLabel() {
				key += "{" + label.GetName() + "=" + label.GetValue() + "}"
			}
			switch {
			case m.GetCounter() != nil:
				values[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[key] = m.GetGauge().GetValue()
			}
		}
	}
	return values
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncSectionReloads()

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bookbuilder_section_reloads_total 1")
}
