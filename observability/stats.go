package observability

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	ShapeStatsName = "xtree/shape"
)

// ShapeSource is a tree whose shape is sampled on every metrics collection.
// Sampling runs on the collector goroutine, so the source must be guarded by
// the caller when it is mutated concurrently.
type ShapeSource interface {
	Len() int64
	Height() int
}

type shapeStats struct {
	size   metric.Int64ObservableGauge
	height metric.Int64ObservableGauge
}

// RegisterTreeShape publishes the size and the height of every source under
// the meter xtree/shape/<name>. Each source is told apart by the tree
// attribute, its index in sources. Unregister the returned registration once
// the trees are released.
func RegisterTreeShape(name string, sources ...ShapeSource) (metric.Registration, error) {
	if len(strings.TrimSpace(name)) == 0 {
		name = "default"
	}
	meter := otel.Meter(fmt.Sprintf("%s/%s", ShapeStatsName, name))
	stats := &shapeStats{
		size: lo.Must[metric.Int64ObservableGauge](meter.Int64ObservableGauge(
			"xtree.shape.size",
			metric.WithDescription(`The number of items held by the tree.`),
		)),
		height: lo.Must[metric.Int64ObservableGauge](meter.Int64ObservableGauge(
			"xtree.shape.height",
			metric.WithDescription(`The height of the tree, -1 when empty.`),
		)),
	}
	return meter.RegisterCallback(func(ctx context.Context, ob metric.Observer) error {
		for i, src := range sources {
			if src == nil {
				continue
			}
			attrs := metric.WithAttributes(attribute.Int("tree", i))
			ob.ObserveInt64(stats.size, src.Len(), attrs)
			ob.ObserveInt64(stats.height, int64(src.Height()), attrs)
		}
		return nil
	}, stats.size, stats.height)
}
