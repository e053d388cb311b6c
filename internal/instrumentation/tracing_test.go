package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// recordSpans installs a recording tracer provider for the duration of the test.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func attrValue(attrs []attribute.KeyValue, key string) string {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value.Emit()
		}
	}
	return ""
}

func TestStartGoogleAPISpan(t *testing.T) {
	recorder := recordSpans(t)

	_, span := StartGoogleAPISpan(context.Background(), ServiceDrive, OperationUpload)
	SetSpanSuccess(span)
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}

	got := ended[0]
	if got.Name() != "google.drive.upload" {
		t.Errorf("expected span name 'google.drive.upload', got %q", got.Name())
	}
	if v := attrValue(got.Attributes(), SpanAttrService); v != ServiceDrive {
		t.Errorf("expected service attribute 'drive', got %q", v)
	}
	if got.Status().Code != codes.Ok {
		t.Errorf("expected status Ok, got %v", got.Status().Code)
	}
}

func TestStartOAuthSpan(t *testing.T) {
	recorder := recordSpans(t)

	_, span := StartOAuthSpan(context.Background(), "oob")
	SetSpanError(span, errors.New("access_denied"))
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if ended[0].Name() != "oauth.authorize" {
		t.Errorf("expected span name 'oauth.authorize', got %q", ended[0].Name())
	}
	if v := attrValue(ended[0].Attributes(), SpanAttrOAuthFlow); v != "oob" {
		t.Errorf("expected flow attribute 'oob', got %q", v)
	}
	if ended[0].Status().Code != codes.Error {
		t.Errorf("expected status Error, got %v", ended[0].Status().Code)
	}
}

func TestSetSpanError_NilError(t *testing.T) {
	recorder := recordSpans(t)

	_, span := StartSpan(context.Background(), "noop")
	SetSpanError(span, nil)
	span.End()

	if code := recorder.Ended()[0].Status().Code; code != codes.Unset {
		t.Errorf("expected status Unset for nil error, got %v", code)
	}
}

func TestGetTraceID(t *testing.T) {
	if id := GetTraceID(context.Background()); id != "" {
		t.Errorf("expected empty trace ID without a span, got %q", id)
	}

	recordSpans(t)
	ctx, span := StartSpan(context.Background(), "with-trace")
	defer span.End()

	if id := GetTraceID(ctx); len(id) != 32 {
		t.Errorf("expected 32 hex chars trace ID, got %q", id)
	}
}

func TestObserveGoogleAPI(t *testing.T) {
	recorder := recordSpans(t)
	wantErr := errors.New("quota exceeded")

	err := ObserveGoogleAPI(context.Background(), nil, ServiceYouTubeAnalytics, OperationQuery, func(ctx context.Context) error {
		if GetTraceID(ctx) == "" {
			t.Error("expected fn to run inside the span")
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected the callback error to be returned, got %v", err)
	}

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if ended[0].Name() != "google.youtube_analytics.query" {
		t.Errorf("unexpected span name %q", ended[0].Name())
	}
	if ended[0].Status().Code != codes.Error {
		t.Errorf("expected status Error, got %v", ended[0].Status().Code)
	}
}
