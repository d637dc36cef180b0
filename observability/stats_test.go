package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/benz9527/xtree/lib/tree"
)

func gaugeByTree(t *testing.T, rm metricdata.ResourceMetrics, name string) map[int64]int64 {
	t.Helper()
	res := make(map[int64]int64)
	for _, sm := range rm.ScopeMetrics {
		if sm.Scope.Name != ShapeStatsName+"/test" {
			continue
		}
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			gauge, ok := m.Data.(metricdata.Gauge[int64])
			require.True(t, ok)
			for _, dp := range gauge.DataPoints {
				v, ok := dp.Attributes.Value(attribute.Key("tree"))
				require.True(t, ok)
				res[v.AsInt64()] = dp.Value
			}
		}
	}
	return res
}

func TestRegisterTreeShape(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	defer func() {
		_ = provider.Shutdown(context.Background())
	}()

	avl := tree.NewAVLTreeMap[int, int]()
	for i := 1; i <= 7; i++ {
		avl.Set(i, i)
	}
	// Ascending inserts leave a splay tree as a chain.
	splay := tree.NewSplayTreeMap[int, int]()
	for i := 0; i < 10; i++ {
		splay.Set(i, i)
	}
	empty := tree.NewRBTreeMap[int, int]()

	reg, err := RegisterTreeShape("test", avl, splay, nil, empty)
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Equal(t, map[int64]int64{0: 7, 1: 10, 3: 0}, gaugeByTree(t, rm, "xtree.shape.size"))
	require.Equal(t, map[int64]int64{0: 2, 1: 9, 3: -1}, gaugeByTree(t, rm, "xtree.shape.height"))

	avl.Release()
	rm = metricdata.ResourceMetrics{}
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Equal(t, int64(0), gaugeByTree(t, rm, "xtree.shape.size")[0])

	require.NoError(t, reg.Unregister())
	rm = metricdata.ResourceMetrics{}
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Empty(t, gaugeByTree(t, rm, "xtree.shape.size"))
}
