package prompush

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/rawload/internal/metrics"
)

func TestNewBackend(t *testing.T) {
	_, err := NewBackend("job", "")
	assert.Error(t, err)

	b, err := NewBackend("", "http://pushgateway:9091")
	require.NoError(t, err)
	assert.Equal(t, DefaultJob, b.job)
}

func TestBackend_Counters(t *testing.T) {
	b, err := NewBackend("rawload", "http://pushgateway:9091")
	require.NoError(t, err)

	b.IncCounter(metrics.RowsTotal, 1000, metrics.Labels{"table": "raw.a", "kind": "inserted"})
	b.IncCounter(metrics.RowsTotal, 500, metrics.Labels{"table": "raw.b", "kind": "inserted"})
	b.IncCounter(metrics.ChunksTotal, 1, metrics.Labels{"status": "failure"})
	b.IncCounter("unknown_metric", 1, nil)
	b.ObserveHistogram(metrics.FileDurationSeconds, 2.5, metrics.Labels{"status": "success"})

	assert.Equal(t, float64(1500), testutil.ToFloat64(b.rows.WithLabelValues("inserted")))
	assert.Equal(t, float64(1), testutil.ToFloat64(b.chunks.WithLabelValues("failure")))
	assert.Equal(t, 1, testutil.CollectAndCount(b.fileDuration))
}

func TestBackend_FlushPushesRegistry(t *testing.T) {
	var (
		mu     sync.Mutex
		method string
		path   string
		body   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		method, path, body = r.Method, r.URL.Path, string(data)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b, err := NewBackend("nightly", srv.URL)
	require.NoError(t, err)
	b.IncCounter(metrics.FilesTotal, 2, metrics.Labels{"status": "success"})

	require.NoError(t, b.Flush())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/nightly", path)
	assert.Contains(t, body, metrics.FilesTotal)
}

func TestBackend_FlushError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	b, err := NewBackend("nightly", srv.URL)
	require.NoError(t, err)
	assert.ErrorContains(t, b.Flush(), "prompush: push to")
}
