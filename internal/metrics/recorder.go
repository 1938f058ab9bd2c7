package metrics

import "time"

// PageResult labels the outcome of one page in a build pass.
type PageResult string

const (
	PageBuilt   PageResult = "built"
	PageSkipped PageResult = "skipped"
	PageFailed  PageResult = "failed"
)

// BuildOutcome labels the outcome of a whole build pass.
type BuildOutcome string

const (
	BuildSuccess BuildOutcome = "success"
	BuildWarning BuildOutcome = "warning" // pages contain section defects
	BuildFailed  BuildOutcome = "failed"
)

// DefectKind labels code section defects.
type DefectKind string

const (
	DefectUndefined DefectKind = "undefined"
	DefectReused    DefectKind = "reused"
	DefectUnused    DefectKind = "unused"
)

// Recorder defines the observability hooks of the builder and dev server.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	ObservePageDuration(page string, d time.Duration)
	IncPageResult(result PageResult)
	AddSectionDefects(kind DefectKind, n int)
	IncSectionReloads()
	IncBuildOutcome(outcome BuildOutcome)
	SetLiveReloadClients(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are off).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration)        {}
func (NoopRecorder) ObservePageDuration(string, time.Duration) {}
func (NoopRecorder) IncPageResult(PageResult)                  {}
func (NoopRecorder) AddSectionDefects(DefectKind, int)         {}
func (NoopRecorder) IncSectionReloads()                        {}
func (NoopRecorder) IncBuildOutcome(BuildOutcome)              {}
func (NoopRecorder) SetLiveReloadClients(int)                  {}
