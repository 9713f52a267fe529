// Package observability provides OpenTelemetry tracing and health reporting.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("joraps"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanTranscribe)
//	defer span.End()
//
// Health Checks:
//
//	health := observability.NewServiceHealth("joraps", "1.0.0")
//	health.AddComponent(observability.Health{Name: "gateway", Status: observability.HealthStatusUp})
package observability
