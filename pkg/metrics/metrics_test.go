package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(Config{
		Namespace: "test",
		Subsystem: "subsys",
		Registry:  registry,
	})

	require.NotNil(t, m)
	assert.NotNil(t, m.LoadsTotal)
	assert.NotNil(t, m.LoadDuration)
	assert.NotNil(t, m.EntriesTotal)
	assert.NotNil(t, m.LoadErrors)
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, "connector_auth", config.Namespace)
	assert.Equal(t, "", config.Subsystem)
	assert.NotNil(t, config.Registry)
}

func TestRecordLoad(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(Config{Namespace: "test", Registry: registry})

	m.RecordLoad(LoaderClassifier, StatusSuccess, 2*time.Millisecond)
	m.RecordLoad(LoaderClassifier, StatusSuccess, time.Millisecond)
	m.RecordLoad(LoaderStatic, StatusError, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LoadsTotal.WithLabelValues(LoaderClassifier, StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoadsTotal.WithLabelValues(LoaderStatic, StatusError)))

	count, err := testutil.GatherAndCount(registry, "test_load_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRecordEntry(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(Config{Namespace: "test", Registry: registry})

	m.RecordEntry("header_key")
	m.RecordEntry("no_key")
	m.RecordEntry("no_key")

	expected := `
# HELP test_entries_total Total number of classified connector entries by auth kind
# TYPE test_entries_total counter
test_entries_total{kind="header_key"} 1
test_entries_total{kind="no_key"} 2
`
	err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "test_entries_total")
	assert.NoError(t, err)
}

func TestRecordLoadError(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(Config{Namespace: "test", Registry: registry})

	m.RecordLoadError(LoaderStatic, "ERR_AUTH_SHAPE_MISMATCH")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoadErrors.WithLabelValues(LoaderStatic, "ERR_AUTH_SHAPE_MISMATCH")))
}

func TestTimer(t *testing.T) {
	timer := NewTimer()
	time.Sleep(5 * time.Millisecond)
	assert.GreaterOrEqual(t, timer.ObserveDuration(), 5*time.Millisecond)
}
