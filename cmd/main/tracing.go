package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/CTAG07/wordchain"

type exporterType string

const (
	exporterNone   exporterType = "none"
	exporterStdout exporterType = "stdout"
	exporterOTLP   exporterType = "otlp"
)

// phaseTracer emits one span per pipeline phase. With the none exporter it
// is a no-op.
type phaseTracer struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
}

func newPhaseTracer(ctx context.Context, cfg *TracingConfig, out io.Writer) (*phaseTracer, error) {
	kind := exporterType(strings.ToLower(cfg.Exporter))
	if kind == exporterNone || kind == "" {
		return &phaseTracer{tracer: noop.NewTracerProvider().Tracer(tracerName)}, nil
	}

	var exporter sdktrace.SpanExporter
	var err error
	switch kind {
	case exporterStdout:
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(out), stdouttrace.WithPrettyPrint())
	case exporterOTLP:
		opts := []otlptracehttp.Option{otlptracehttp.WithInsecure()}
		if cfg.Endpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(cfg.Endpoint))
		}
		exporter, err = otlptracehttp.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unsupported exporter type: %s", cfg.Exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	// Not merged with resource.Default() to avoid schema URL conflicts.
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	// Each span is exported as it ends.
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(res),
	)
	return &phaseTracer{
		tracer:   provider.Tracer(tracerName, trace.WithInstrumentationVersion(Version)),
		provider: provider,
	}, nil
}

// start opens a span for a named phase.
func (p *phaseTracer) start(ctx context.Context, phase string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, phase, trace.WithAttributes(attrs...))
}

// endSpan closes span, recording err when it is non-nil.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func (p *phaseTracer) shutdown(ctx context.Context) error {
	if p.provider != nil {
		return p.provider.Shutdown(ctx)
	}
	return nil
}
