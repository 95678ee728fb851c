package render

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/transitflow/transitflow/internal/telemetry"
)

const meterName = "github.com/transitflow/transitflow/internal/render"

// renderMetrics holds the OpenTelemetry instruments for frame rendering.
type renderMetrics struct {
	renderDuration metric.Float64Histogram
	renderTotal    metric.Int64Counter
}

func newRenderMetrics() (*renderMetrics, error) {
	meter := telemetry.Meter(meterName)

	renderDuration, err := meter.Float64Histogram(
		"frame.render.duration",
		metric.WithDescription("Duration of frame renders in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	renderTotal, err := meter.Int64Counter(
		"frame.render.total",
		metric.WithDescription("Total number of frame renders"),
		metric.WithUnit("{frame}"),
	)
	if err != nil {
		return nil, err
	}

	return &renderMetrics{
		renderDuration: renderDuration,
		renderTotal:    renderTotal,
	}, nil
}

// observe returns a completion func recording one render of the given layer.
// Call it with the render's error once the frame is done.
func (m *renderMetrics) observe(ctx context.Context, layer string, start time.Time) func(error) {
	return func(err error) {
		attrs := []attribute.KeyValue{attribute.String("layer", layer)}
		if err != nil {
			attrs = append(attrs, attribute.Bool("error", true))
		}
		m.renderDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attrs...))
		m.renderTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
