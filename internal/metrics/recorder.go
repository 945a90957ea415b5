package metrics

import "time"

// ResultLabel enumerates stage and run result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// PageAction labels the page counter.
type PageAction string

const (
	PageMoved    PageAction = "moved"
	PageDeleted  PageAction = "deleted"
	PageRenamed  PageAction = "renamed"
	PageFailed   PageAction = "failed"
	PageDangling PageAction = "dangling_link"
)

// Recorder defines observability hooks for post-processing runs and the
// external commands (sphinx, doxygen) around them.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(result ResultLabel)
	AddPages(action PageAction, n int)
	ObserveCommandDuration(command string, d time.Duration, success bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)         {}
func (NoopRecorder) IncStageResult(string, ResultLabel)                 {}
func (NoopRecorder) ObserveRunDuration(time.Duration)                   {}
func (NoopRecorder) IncRunOutcome(ResultLabel)                          {}
func (NoopRecorder) AddPages(PageAction, int)                           {}
func (NoopRecorder) ObserveCommandDuration(string, time.Duration, bool) {}
