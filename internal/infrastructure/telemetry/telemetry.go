// Package telemetry wires OpenTelemetry traces, metrics and logs for the service.
package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/mfgerp/backend/internal/infrastructure/config"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

const serviceVersion = "1.0.0"

// Config holds telemetry configuration.
type Config struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
}

// FromAppConfig maps the telemetry section of the application config
func FromAppConfig(c config.TelemetryConfig) Config {
	return Config{
		Enabled:           c.Enabled,
		CollectorEndpoint: c.CollectorEndpoint,
		SamplingRatio:     c.SamplingRatio,
		ServiceName:       c.ServiceName,
		Insecure:          c.Insecure,
	}
}

// Providers bundles the three signal providers so they can be shut down together
type Providers struct {
	Tracer *TracerProvider
	Meter  *MeterProvider
	Logs   *LoggerProvider
}

// Setup creates the tracer, meter and logger providers. Disabled telemetry
// yields providers backed by the global no-op implementations.
func Setup(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*Providers, error) {
	base := FromAppConfig(cfg)

	tp, err := NewTracerProvider(ctx, base, logger)
	if err != nil {
		return nil, err
	}
	mp, err := NewMeterProvider(ctx, MetricsConfig{Config: base, ExportInterval: cfg.MetricsInterval}, logger)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}
	lp, err := NewLoggerProvider(ctx, base, logger)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, err
	}
	return &Providers{Tracer: tp, Meter: mp, Logs: lp}, nil
}

// Shutdown flushes and stops all providers
func (p *Providers) Shutdown(ctx context.Context) error {
	return errors.Join(
		p.Logs.Shutdown(ctx),
		p.Meter.Shutdown(ctx),
		p.Tracer.Shutdown(ctx),
	)
}

func newResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}
