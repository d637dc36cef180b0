package tree

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	TreeStatsName = "xtree"
)

type treeStats struct {
	rotationCount    metric.Int64Counter
	restructureCount metric.Int64Counter
	nodeCount        metric.Int64UpDownCounter
	rebalanceDepth   metric.Int64Histogram
}

func (stats *treeStats) IncreaseRotationCount() {
	if stats == nil {
		return
	}
	stats.rotationCount.Add(context.Background(), 1)
}

func (stats *treeStats) IncreaseRestructureCount() {
	if stats == nil {
		return
	}
	stats.restructureCount.Add(context.Background(), 1)
}

func (stats *treeStats) RecordNodeCount(delta int64) {
	if stats == nil || delta == 0 {
		return
	}
	stats.nodeCount.Add(context.Background(), delta)
}

// RecordRebalanceDepth records how many levels one rebalance pass climbed.
func (stats *treeStats) RecordRebalanceDepth(levels int64) {
	if stats == nil {
		return
	}
	stats.rebalanceDepth.Record(context.Background(), levels)
}

func newTreeStats(name string) *treeStats {
	meterName := fmt.Sprintf("%s/%s", TreeStatsName, name)
	return &treeStats{
		rotationCount: lo.Must[metric.Int64Counter](otel.Meter(meterName).
			Int64Counter(
				"xtree.rotation.count",
				metric.WithDescription("The number of single rotations applied to the tree."),
			),
		),
		restructureCount: lo.Must[metric.Int64Counter](otel.Meter(meterName).
			Int64Counter(
				"xtree.restructure.count",
				metric.WithDescription("The number of trinode restructurings applied to the tree."),
			),
		),
		nodeCount: lo.Must[metric.Int64UpDownCounter](otel.Meter(meterName).
			Int64UpDownCounter(
				"xtree.node.count",
				metric.WithDescription("The number of live nodes in the tree."),
			),
		),
		rebalanceDepth: lo.Must[metric.Int64Histogram](otel.Meter(meterName).
			Int64Histogram(
				"xtree.rebalance.depth",
				metric.WithDescription("The levels climbed by one rebalance pass."),
			),
		),
	}
}
