package telemetry

import (
	"context"
	"strings"
	"time"

	"taskflow/internal/core/port"
	"taskflow/internal/core/service"
	"taskflow/pkg/tracing"
)

// MetricsProbe forwards to the wrapped probe and counts the events the
// Prometheus dashboards use.
type MetricsProbe struct {
	port.Telemetry
	metrics *tracing.AppMetrics
}

func NewMetricsProbe(next port.Telemetry, metrics *tracing.AppMetrics) *MetricsProbe {
	return &MetricsProbe{Telemetry: next, metrics: metrics}
}

func (p *MetricsProbe) RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error) {
	p.Telemetry.RecordRepositoryOperation(ctx, operation, entity, duration, err)

	if operation == service.SnapshotWriteOperation {
		p.metrics.RecordSnapshotWrite(ctx, err)
		return
	}

	p.metrics.RecordStorageOperation(ctx, operation, entity, duration, err)
}

func (p *MetricsProbe) RecordBusinessEvent(ctx context.Context, event string, entity string, entityID string, userID string, metadata map[string]interface{}) {
	p.Telemetry.RecordBusinessEvent(ctx, event, entity, entityID, userID, metadata)

	switch entity {
	case "task":
		applied, _ := metadata["applied"].(bool)
		p.metrics.RecordTaskOperation(ctx, strings.TrimPrefix(event, "task_"), applied)
	case "session":
		p.metrics.RecordSessionEvent(ctx, strings.TrimPrefix(event, "session_"))
	}
}
