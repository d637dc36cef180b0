package tree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func findTreeMetric(rm metricdata.ResourceMetrics, scope, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		if sm.Scope.Name != scope {
			continue
		}
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumValue(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	return sum.DataPoints[0].Value
}

func TestTreeStats_AVL(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	defer func() {
		_ = provider.Shutdown(context.Background())
	}()

	m := NewAVLTreeMap[int, int](WithTreeMapStats[int, int]("avl-ascending"))
	for i := 1; i <= 7; i++ {
		m.Set(i, i)
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	scope := TreeStatsName + "/avl-ascending"
	require.Equal(t, int64(4), sumValue(t, findTreeMetric(rm, scope, "xtree.rotation.count")))
	require.Equal(t, int64(4), sumValue(t, findTreeMetric(rm, scope, "xtree.restructure.count")))
	require.Equal(t, int64(7), sumValue(t, findTreeMetric(rm, scope, "xtree.node.count")))

	depth := findTreeMetric(rm, scope, "xtree.rebalance.depth")
	require.NotNil(t, depth)
	hist, ok := depth.Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	require.Equal(t, uint64(7), hist.DataPoints[0].Count)

	_, err := m.Delete(4)
	require.NoError(t, err)
	m.Release()
	rm = metricdata.ResourceMetrics{}
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Equal(t, int64(0), sumValue(t, findTreeMetric(rm, scope, "xtree.node.count")))
}

func TestTreeStats_Disabled(t *testing.T) {
	m := NewRBTreeMap[int, int]()
	require.Nil(t, m.tree.stats)
	for i := 0; i < 16; i++ {
		m.Set(i, i)
	}
	require.NoError(t, ValidateTreeMap(m))

	m = NewSplayTreeMap[int, int](WithTreeMapStats[int, int](" "))
	require.Equal(t, "default", m.statsName)
	require.NotNil(t, m.tree.stats)
}

func TestTreeStats_BinaryTree(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	defer func() {
		_ = provider.Shutdown(context.Background())
	}()

	tree, pos := buildSampleTree(t, WithBinaryTreeStats[int]("core"))
	require.NoError(t, tree.Rotate(pos[2]))
	require.NoError(t, tree.Rotate(pos[1]))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	scope := TreeStatsName + "/core"
	require.Equal(t, int64(2), sumValue(t, findTreeMetric(rm, scope, "xtree.rotation.count")))
	require.Equal(t, int64(6), sumValue(t, findTreeMetric(rm, scope, "xtree.node.count")))

	_, err := tree.Delete(pos[4])
	require.NoError(t, err)
	rm = metricdata.ResourceMetrics{}
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Equal(t, int64(5), sumValue(t, findTreeMetric(rm, scope, "xtree.node.count")))
}
