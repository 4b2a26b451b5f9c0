package observability

import (
	"testing"

	"github.com/marcosfdz/jornadabet/internal/config"
)

func TestInitUptrace_DisabledByFlag(t *testing.T) {
	shutdown, err := InitUptrace(config.Config{UptraceEnabled: false, UptraceDSN: "https://token@api.uptrace.dev/1"}, nil)
	if err != nil {
		t.Fatalf("InitUptrace: %v", err)
	}
	if shutdown == nil {
		t.Fatal("shutdown func must not be nil")
	}
	if err := shutdown(t.Context()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestInitUptrace_EmptyDSN(t *testing.T) {
	shutdown, err := InitUptrace(config.Config{UptraceEnabled: true, UptraceDSN: "  "}, nil)
	if err != nil {
		t.Fatalf("InitUptrace: %v", err)
	}
	if err := shutdown(t.Context()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
