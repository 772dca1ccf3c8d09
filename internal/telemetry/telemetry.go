// Package telemetry sets up the OpenTelemetry tracer provider. Finished spans
// are written to the zap logger, so traces show up next to the access log
// without running a collector.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// LogExporter writes each finished span as one debug log line
type LogExporter struct {
	log *zap.Logger
}

var _ sdktrace.SpanExporter = (*LogExporter)(nil)

// NewLogExporter creates an exporter logging to log
func NewLogExporter(log *zap.Logger) *LogExporter {
	return &LogExporter{log: log.Named("trace")}
}

// ExportSpans logs spans in the order they finished
func (e *LogExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		sc := span.SpanContext()
		fields := []zap.Field{
			zap.String("span", span.Name()),
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
			zap.Duration("duration", span.EndTime().Sub(span.StartTime())),
		}
		if parent := span.Parent(); parent.IsValid() {
			fields = append(fields, zap.String("parent_id", parent.SpanID().String()))
		}
		if status := span.Status(); status.Description != "" {
			fields = append(fields, zap.String("status", status.Description))
		}
		for _, kv := range span.Attributes() {
			fields = append(fields, attributeField(kv))
		}
		e.log.Debug("span", fields...)
	}
	return nil
}

// Shutdown flushes the logger
func (e *LogExporter) Shutdown(context.Context) error {
	_ = e.log.Sync()
	return nil
}

func attributeField(kv attribute.KeyValue) zap.Field {
	key := string(kv.Key)
	switch kv.Value.Type() {
	case attribute.BOOL:
		return zap.Bool(key, kv.Value.AsBool())
	case attribute.INT64:
		return zap.Int64(key, kv.Value.AsInt64())
	case attribute.FLOAT64:
		return zap.Float64(key, kv.Value.AsFloat64())
	default:
		return zap.String(key, kv.Value.Emit())
	}
}

// NewTracerProvider builds a provider sampling ratio of the root spans and
// exporting them to log. It is also installed as the global provider.
func NewTracerProvider(log *zap.Logger, ratio float64) *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
		sdktrace.WithBatcher(NewLogExporter(log)),
	)
	otel.SetTracerProvider(tp)
	return tp
}
