package instrumentation

import (
	"context"
	"testing"
	"time"
)

func TestMetrics_Record(t *testing.T) {
	provider := newTestProvider(t, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
	})

	ctx := context.Background()
	metrics := provider.Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil")
	}

	metrics.RecordGoogleAPIOperation(ctx, ServiceCalendar, OperationInsert, StatusSuccess, 200*time.Millisecond)
	metrics.RecordGoogleAPIOperation(ctx, ServiceDrive, OperationUpload, StatusError, 500*time.Millisecond)
	metrics.RecordGoogleAPIOperation(ctx, ServiceYouTubeAnalytics, OperationQuery, StatusSuccess, 100*time.Millisecond)
	metrics.RecordOAuthAuth(ctx, "oob", OAuthResultFailure)
	metrics.RecordOAuthAuth(ctx, "loopback", OAuthResultCached)
	metrics.RecordOAuthTokenRefresh(ctx, OAuthResultSuccess)

	families, err := provider.Gatherer().Gather()
	if err != nil {
		t.Fatalf("failed to gather: %v", err)
	}

	found := map[string]bool{}
	for _, mf := range families {
		found[mf.GetName()] = true
	}
	for _, name := range []string{"google_api_operations_total", "oauth_auth_total", "oauth_token_refresh_total"} {
		if !found[name] {
			t.Errorf("expected metric family %q to be gathered", name)
		}
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	ctx := context.Background()

	var nilMetrics *Metrics
	nilMetrics.RecordGoogleAPIOperation(ctx, ServiceDrive, OperationUpload, StatusSuccess, time.Second)
	nilMetrics.RecordOAuthAuth(ctx, "oob", OAuthResultSuccess)
	nilMetrics.RecordOAuthTokenRefresh(ctx, OAuthResultFailure)

	empty := &Metrics{}
	empty.RecordGoogleAPIOperation(ctx, ServiceDrive, OperationUpload, StatusSuccess, time.Second)
	empty.RecordOAuthAuth(ctx, "oob", OAuthResultSuccess)
	empty.RecordOAuthTokenRefresh(ctx, OAuthResultFailure)
}
