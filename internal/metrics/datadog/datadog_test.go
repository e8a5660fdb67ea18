package datadog

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/rawload/internal/metrics"
)

func TestLabelsToTags(t *testing.T) {
	assert.Nil(t, labelsToTags(nil))
	assert.Equal(t, []string{"kind:inserted", "table:raw.a"},
		labelsToTags(metrics.Labels{"table": "raw.a", "kind": "inserted"}))
}

func TestNewBackend_RequiresAddr(t *testing.T) {
	_, err := NewBackend(Config{})
	assert.Error(t, err)
}

func TestBackend_SendsToAgent(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer conn.Close()

	b, err := NewBackend(Config{Addr: conn.LocalAddr().String(), Namespace: "etl."})
	require.NoError(t, err)

	b.IncCounter(metrics.RowsTotal, 42, metrics.Labels{"kind": "inserted"})
	b.ObserveHistogram(metrics.FileDurationSeconds, 0.25, metrics.Labels{"status": "success"})
	require.NoError(t, b.Flush())

	var received strings.Builder
	buf := make([]byte, 65536)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for !strings.Contains(received.String(), "rows_total") || !strings.Contains(received.String(), "file_duration_seconds") {
		n, _, err := conn.ReadFrom(buf)
		require.NoError(t, err)
		received.Write(buf[:n])
	}

	assert.Contains(t, received.String(), "etl."+metrics.RowsTotal+":42|c|#kind:inserted")
	assert.Contains(t, received.String(), "etl."+metrics.FileDurationSeconds+":0.25|h|#status:success")
}
