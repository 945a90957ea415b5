package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopRecorderSatisfiesRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	assert.NotPanics(t, func() {
		r.ObserveStageDuration("cleanup", time.Millisecond)
		r.IncStageResult("cleanup", ResultSuccess)
		r.ObserveRunDuration(time.Second)
		r.IncRunOutcome(ResultSuccess)
		r.AddPages(PageMoved, 1)
		r.ObserveCommandDuration("doxygen", time.Second, false)
	})
}

func TestPrometheusRecorderSatisfiesRecorder(t *testing.T) {
	var _ Recorder = (*PrometheusRecorder)(nil)
}
