package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.uber.org/zap"

	"taskflow/internal/core/port"
	"taskflow/internal/core/telemetry"
	"taskflow/pkg/config"
	"taskflow/pkg/tracing"
)

type Container struct {
	TracerProvider     *sdktrace.TracerProvider
	MeterProvider      *sdkmetric.MeterProvider
	PrometheusRegistry *prometheus.Registry
	MetricsServer      *http.Server
	AppMetrics         *tracing.AppMetrics
	enabled            bool
}

// NewContainer always builds the Prometheus registry and AppMetrics. OTLP
// export, runtime instrumentation and the /metrics listener start only when
// telemetry is enabled.
func NewContainer(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*Container, error) {
	registry := prometheus.NewRegistry()

	container := &Container{
		PrometheusRegistry: registry,
		AppMetrics:         tracing.NewAppMetrics(registry),
		enabled:            cfg.Telemetry.Enabled,
	}

	if !cfg.Telemetry.Enabled {
		return container, nil
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(cfg.ServiceName),
		semconv.ServiceVersionKey.String(cfg.ServiceVersion),
		semconv.DeploymentEnvironmentKey.String(cfg.Environment),
	)

	container.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(container.MeterProvider)

	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(cfg.Telemetry.OTLPEndpoint),
		otlptracegrpc.WithInsecure(),
	)

	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	container.TracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(time.Second),
		),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(container.TracerProvider)

	if err := runtime.Start(runtime.WithMinimumReadMemStatsInterval(time.Second)); err != nil {
		return nil, fmt.Errorf("start runtime instrumentation: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	container.MetricsServer = &http.Server{
		Addr:         ":" + cfg.Telemetry.MetricsPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		if err := container.MetricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start metrics server", zap.Error(err))
		}
	}()

	container.AppMetrics.StartSystemMetrics(ctx)

	return container, nil
}

func (c *Container) Shutdown(ctx context.Context) error {
	if !c.enabled {
		return nil
	}

	return errors.Join(
		c.TracerProvider.Shutdown(ctx),
		c.MeterProvider.Shutdown(ctx),
		c.MetricsServer.Shutdown(ctx),
	)
}

// NewTelemetryProbe returns the probe handed to repositories and services.
func (c *Container) NewTelemetryProbe(logger *zap.Logger) port.Telemetry {
	var probe port.Telemetry = telemetry.NewNoOpProbe()

	if c.enabled {
		probe = telemetry.NewOTELProbe(logger)
	}

	return NewMetricsProbe(probe, c.AppMetrics)
}
