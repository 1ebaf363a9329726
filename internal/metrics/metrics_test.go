package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnetkit/tnet/pkg/protocol"
)

func newTestMetrics(t *testing.T) (*Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return New(WithRegistry(reg)), reg
}

func TestObserveFrame(t *testing.T) {
	m, reg := newTestMetrics(t)

	m.ObserveFrame(protocol.ToClient, "ItemOwner", 6, time.Millisecond)
	m.ObserveFrame(protocol.ToClient, "ItemOwner", 6, time.Millisecond)
	m.ObserveFrame(protocol.ToServer, "ChestName", 12, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.framesTotal.WithLabelValues("to_client", "ItemOwner")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.framesTotal.WithLabelValues("to_server", "ChestName")))

	n, err := testutil.GatherAndCount(reg, "tnet_relay_frame_bytes", "tnet_relay_frame_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestCounters(t *testing.T) {
	m, _ := newTestMetrics(t)

	m.DecodeError(protocol.ToServer, "truncated")
	m.Rewritten(protocol.ToClient)
	m.Dropped(protocol.ToClient, ReasonCanceled)
	m.Dropped(protocol.ToClient, ReasonCanceled)
	m.Dropped(protocol.ToServer, ReasonBlocked)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.decodeErrors.WithLabelValues("to_server", "truncated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rewritten.WithLabelValues("to_client")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.dropped.WithLabelValues("to_client", ReasonCanceled)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dropped.WithLabelValues("to_server", ReasonBlocked)))
}

func TestConnections(t *testing.T) {
	m, reg := newTestMetrics(t)

	m.ConnOpened()
	m.ConnOpened()
	m.ConnClosed()

	expected := `
# HELP tnet_relay_active_connections Number of client connections being relayed
# TYPE tnet_relay_active_connections gauge
tnet_relay_active_connections 1
# HELP tnet_relay_connections_total Total number of client connections accepted
# TYPE tnet_relay_connections_total counter
tnet_relay_connections_total 2
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"tnet_relay_active_connections", "tnet_relay_connections_total")
	assert.NoError(t, err)
}

func TestOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(
		WithRegistry(reg),
		WithNamespace("game"),
		WithSubsystem("proxy"),
		WithConstLabels(prometheus.Labels{"shard": "a"}),
		WithBuckets([]float64{0.001, 0.01}),
	)
	m.Rewritten(protocol.ToServer)

	families, err := reg.Gather()
	require.NoError(t, err)

	var labels []*dto.LabelPair
	for _, f := range families {
		if f.GetName() == "game_proxy_frames_rewritten_total" {
			labels = f.GetMetric()[0].GetLabel()
		}
	}
	require.NotNil(t, labels, "game_proxy_frames_rewritten_total not gathered")
	var names []string
	for _, l := range labels {
		names = append(names, l.GetName()+"="+l.GetValue())
	}
	assert.ElementsMatch(t, []string{"direction=to_server", "shard=a"}, names)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveFrame(protocol.ToClient, "x", 1, 0)
		m.DecodeError(protocol.ToClient, "other")
		m.Rewritten(protocol.ToClient)
		m.Dropped(protocol.ToClient, ReasonBlocked)
		m.ConnOpened()
		m.ConnClosed()
	})
}
