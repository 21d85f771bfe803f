package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestSamplerFor(t *testing.T) {
	root := sdktrace.SamplingParameters{ParentContext: context.Background(), TraceID: trace.TraceID{0xff}}

	tests := []struct {
		name  string
		ratio float64
		want  sdktrace.SamplingDecision
	}{
		{name: "full ratio keeps everything", ratio: 1, want: sdktrace.RecordAndSample},
		{name: "zero ratio drops new roots", ratio: 0, want: sdktrace.Drop},
		{name: "negative ratio drops new roots", ratio: -0.5, want: sdktrace.Drop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, samplerFor(tt.ratio).ShouldSample(root).Decision)
		})
	}
}

func TestInitTracing_DisabledIsNoop(t *testing.T) {
	previous := Tracer
	t.Cleanup(func() { Tracer = previous })

	shutdown, err := InitTracing(TracingConfig{ServiceName: "heirloom-test"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	_, span := StartSpan(context.Background(), "story.create")
	assert.False(t, span.span.SpanContext().IsSampled())
	span.End(nil)
}
