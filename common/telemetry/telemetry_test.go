package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracer_WithoutCollector(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), TracerConfig{ServiceName: "dashboard"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	_, span := GetTracer("test").Start(context.Background(), "noop")
	span.SetAttributes(String("k", "v"), Int("n", 1), Float64("f", 0.5), Bool("b", true))
	span.End()
}
