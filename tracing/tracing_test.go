package tracing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	shutdown, err := InitWithExporter("approvalflow", "test", exporter)
	require.NoError(t, err)
	defer shutdown(context.Background())

	_, span := StartSpan(context.Background(), "approval.decide")
	span.WithAttributes(map[string]string{"instanceId": "wf-1"})
	EndSpan(span, errors.New("conflict"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "approval.decide", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
}

func TestInit(t *testing.T) {
	shutdown, err := Init(Config{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	fname := filepath.Join(t.TempDir(), "spans.txt")
	shutdown, err = Init(Config{Enabled: true, ServiceName: "approvalflow", OutputFile: fname})
	require.NoError(t, err)
	_, span := StartSpan(context.Background(), "approval.route")
	EndSpan(span, nil)
	require.NoError(t, shutdown(context.Background()))

	data, err := os.ReadFile(fname)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
