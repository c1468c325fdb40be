package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestCollector_DescribeEmitsSixDescs(t *testing.T) {
	c := NewCollector(New(), "callpool", "test")

	ch := make(chan *prometheus.Desc, 16)
	c.Describe(ch)
	close(ch)

	var descs []*prometheus.Desc
	for d := range ch {
		descs = append(descs, d)
	}
	require.Len(t, descs, 6)
}

func TestCollector_CollectReportsCurrentStats(t *testing.T) {
	v := New()
	v.IncProcessed()
	v.IncProcessed()
	v.IncErrors()

	c := NewCollector(v, "callpool", "test")

	ch := make(chan prometheus.Metric, 16)
	c.Collect(ch)
	close(ch)

	var found int
	for m := range ch {
		var pb dto.Metric
		require.NoError(t, m.Write(&pb))
		if pb.Counter != nil && pb.Counter.GetValue() == 2 {
			found++
		}
	}
	require.GreaterOrEqual(t, found, 1)
}
