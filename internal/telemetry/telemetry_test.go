package telemetry_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vm75/nginx-manager/internal/telemetry"
)

func TestSetup_PrometheusBridge(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := telemetry.Setup(context.Background(), telemetry.Config{ServiceVersion: "1.0.0", Registerer: reg})
	require.NoError(t, err)
	defer func() { assert.NoError(t, p.Shutdown(context.Background())) }()

	assert.Nil(t, p.LogHandler)
	assert.NotNil(t, p.TracerProvider)

	counter, err := p.MeterProvider.Meter("test").Int64Counter("config_checks")
	require.NoError(t, err)
	counter.Add(context.Background(), 2)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if strings.HasPrefix(mf.GetName(), "config_checks") {
			found = true
			require.NotEmpty(t, mf.GetMetric())
			assert.EqualValues(t, 2, mf.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.True(t, found, "counter not exported to the prometheus registry")
}

func TestSetup_NoRegistry(t *testing.T) {
	p, err := telemetry.Setup(context.Background(), telemetry.Config{})
	require.NoError(t, err)
	assert.NotNil(t, p.MeterProvider)
	assert.NoError(t, p.Shutdown(context.Background()))
	assert.NoError(t, p.Shutdown(context.Background()), "second shutdown is a no-op")
}

func TestSetup_OTLPEnablesLogBridge(t *testing.T) {
	p, err := telemetry.Setup(context.Background(), telemetry.Config{OTLPEndpoint: "http://127.0.0.1:1"})
	require.NoError(t, err)
	assert.NotNil(t, p.LogHandler)

	_, span := p.TracerProvider.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	// Nothing listens on the endpoint, so the final flush may fail; it must
	// still return promptly.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = p.Shutdown(ctx)
}
