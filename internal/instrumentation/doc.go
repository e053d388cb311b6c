// Package instrumentation provides OpenTelemetry metrics and tracing for the
// gsamples commands.
//
// Instrumentation is off by default. When enabled, every Google API call and
// every interactive OAuth authorization is recorded.
//
// # Metrics
//
// Google API Metrics:
//   - google_api_operations_total: Counter of Google API operations by service, operation, status
//   - google_api_operation_duration_seconds: Histogram of Google API operation durations
//
// OAuth Metrics:
//   - oauth_auth_total: Counter of authorization attempts by flow and result
//   - oauth_token_refresh_total: Counter of token refresh attempts by result
//
// # Tracing
//
// Spans are created for:
//   - Google API calls (google.<service>.<operation>)
//   - Interactive OAuth authorizations (oauth.authorize)
//
// # Configuration
//
// Instrumentation is configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: false)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - METRICS_TEXTFILE: Write the Prometheus registry to this path on exit
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 1.0)
//   - OTEL_SERVICE_NAME: Service name (default: gsamples)
//
// A command is a single short-lived process, so there is no scrape endpoint.
// With the prometheus exporter, set METRICS_TEXTFILE to a path watched by the
// node_exporter textfile collector.
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	err = instrumentation.ObserveGoogleAPI(ctx, provider.Metrics(),
//		instrumentation.ServiceCalendar, instrumentation.OperationInsert,
//		func(ctx context.Context) error {
//			_, err := call.Context(ctx).Do()
//			return err
//		})
package instrumentation
