package payment

import (
	"io"
	"log/slog"
	"testing"

	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/config"
)

func TestNewProviderUsesConfig(t *testing.T) {
	cfg := &config.Config{PaymentSystemAddress: "http://example.com"}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	provider, err := newProvider(providerParams{Config: cfg, Logger: logger})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider == nil {
		t.Fatal("expected provider instance")
	}
}
