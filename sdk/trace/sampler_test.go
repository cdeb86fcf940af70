package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/signalcore/telemetry-go/telemetry"
)

func TestAlwaysOnSamples(t *testing.T) {
	r := AlwaysOn().ShouldSample(context.Background(), SamplingParameters{TraceID: telemetry.NewTraceID()})
	assert.Equal(t, RecordAndSample, r.Decision)
}

func TestAlwaysOffDrops(t *testing.T) {
	r := AlwaysOff().ShouldSample(context.Background(), SamplingParameters{TraceID: telemetry.NewTraceID()})
	assert.Equal(t, Drop, r.Decision)
}

func TestTraceIDRatioDeterministicPerTrace(t *testing.T) {
	s := TraceIDRatioBased(0.5)
	traceID := telemetry.NewTraceID()
	r1 := s.ShouldSample(context.Background(), SamplingParameters{TraceID: traceID})
	r2 := s.ShouldSample(context.Background(), SamplingParameters{TraceID: traceID})
	assert.Equal(t, r1.Decision, r2.Decision)
}

func TestTraceIDRatioZeroDropsEverything(t *testing.T) {
	s := TraceIDRatioBased(0)
	for i := 0; i < 20; i++ {
		r := s.ShouldSample(context.Background(), SamplingParameters{TraceID: telemetry.NewTraceID()})
		assert.Equal(t, Drop, r.Decision)
	}
}

func TestTraceIDRatioOneSamplesEverything(t *testing.T) {
	s := TraceIDRatioBased(1)
	for i := 0; i < 20; i++ {
		r := s.ShouldSample(context.Background(), SamplingParameters{TraceID: telemetry.NewTraceID()})
		assert.Equal(t, RecordAndSample, r.Decision)
	}
}

func TestParentBasedInheritsSampledRemoteParent(t *testing.T) {
	s := ParentBased(AlwaysOff())
	parent := telemetry.NewSpanContext(telemetry.NewTraceID(), telemetry.NewSpanID(), telemetry.FlagsSampled, telemetry.TraceState{}, true)
	r := s.ShouldSample(context.Background(), SamplingParameters{ParentContext: parent, TraceID: parent.TraceID()})
	assert.Equal(t, RecordAndSample, r.Decision)
}

func TestParentBasedConsultsRootWhenNoParent(t *testing.T) {
	s := ParentBased(AlwaysOff())
	r := s.ShouldSample(context.Background(), SamplingParameters{TraceID: telemetry.NewTraceID()})
	assert.Equal(t, Drop, r.Decision)
}

func TestRateLimitedDowngradesBeyondBudget(t *testing.T) {
	s := RateLimited(AlwaysOn(), 1)
	var sampled, recordOnly int
	for i := 0; i < 5; i++ {
		r := s.ShouldSample(context.Background(), SamplingParameters{TraceID: telemetry.NewTraceID()})
		switch r.Decision {
		case RecordAndSample:
			sampled++
		case RecordOnly:
			recordOnly++
		}
	}
	assert.Greater(t, recordOnly, 0)
	assert.Greater(t, sampled, 0)
}
