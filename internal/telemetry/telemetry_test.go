package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), "movietable-test", false, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Setup() unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSetupExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := Setup(context.Background(), "movietable-test", true, &buf)
	if err != nil {
		t.Fatalf("Setup() unexpected error: %v", err)
	}

	_, span := otel.Tracer("test").Start(context.Background(), "submit")
	span.End()

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if !strings.Contains(buf.String(), `"Name":"submit"`) {
		t.Fatalf("exported spans missing submit span: %s", buf.String())
	}
}
