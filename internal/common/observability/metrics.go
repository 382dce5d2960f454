// internal/common/observability/metrics.go
package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider      *metric.MeterProvider
	meter              otelmetric.Meter
	resolutionCounter  otelmetric.Int64Counter
	resolutionDuration otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	resolutionCounter, _ := meter.Int64Counter(
		"resolutions.processed",
		otelmetric.WithDescription("Number of question resolutions processed"),
	)

	resolutionDuration, _ := meter.Float64Histogram(
		"resolutions.duration",
		otelmetric.WithDescription("Question resolution duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:      provider,
		meter:              meter,
		resolutionCounter:  resolutionCounter,
		resolutionDuration: resolutionDuration,
	}
}

func (o *Observability) RecordResolution(ctx context.Context, method string) {
	if o.resolutionCounter != nil {
		o.resolutionCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("method", method),
		))
	}
}

func (o *Observability) RecordResolutionDuration(ctx context.Context, duration time.Duration, method string) {
	if o.resolutionDuration != nil {
		o.resolutionDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("method", method),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
