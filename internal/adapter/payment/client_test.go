package payment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewHTTPClientValidatesURL(t *testing.T) {
	if _, err := NewHTTPClient("://bad-url", testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("/relative", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestFetchDecodesPaymentResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/payments/ORD-20250101-0001" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"order":"ORD-20250101-0001","status":"PAID","amount":129.99}`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	result, err := client.Fetch(context.Background(), "ORD-20250101-0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.OrderNumber != "ORD-20250101-0001" {
		t.Errorf("unexpected order number %s", result.OrderNumber)
	}
	if result.Status != model.PaymentStatusPaid {
		t.Errorf("expected PAID status, got %s", result.Status)
	}
	if result.Amount == nil || !result.Amount.Equal(decimal.RequireFromString("129.99")) {
		t.Errorf("unexpected amount %v", result.Amount)
	}
}

func TestFetchHandlesSpecialStatuses(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		header     http.Header
		wantErr    error
	}{
		{name: "not registered", statusCode: http.StatusNoContent, wantErr: ErrOrderNotRegistered},
		{name: "too many requests", statusCode: http.StatusTooManyRequests, header: http.Header{"Retry-After": []string{"5"}}, wantErr: TooManyRequestsError{RetryAfter: 5 * time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for key, values := range tt.header {
					for _, v := range values {
						w.Header().Add(key, v)
					}
				}
				w.WriteHeader(tt.statusCode)
			}))
			defer srv.Close()

			client, err := NewHTTPClient(srv.URL, testLogger())
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}

			_, err = client.Fetch(context.Background(), "ORD-20250101-0001")
			if tt.statusCode == http.StatusTooManyRequests {
				var tm TooManyRequestsError
				if !errors.As(err, &tm) {
					t.Fatalf("expected TooManyRequestsError, got %v", err)
				}
				if tm.RetryAfter != 5*time.Second {
					t.Fatalf("expected retry after 5s, got %v", tm.RetryAfter)
				}
			} else if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFetchLogsErrorResponses(t *testing.T) {
	called := make(chan struct{}, 1)
	handler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.LevelKey && a.Value.Any() == slog.LevelError {
			select {
			case called <- struct{}{}:
			default:
			}
		}
		return a
	}})
	logger := slog.New(handler)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, logger)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if _, err := client.Fetch(context.Background(), "ORD-20250101-0001"); err == nil {
		t.Fatal("expected error from server")
	}

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("expected error log to be written")
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Now()
	httpTime := now.Add(2 * time.Second).UTC().Format(http.TimeFormat)

	cases := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{name: "empty", header: "", want: 5 * time.Second},
		{name: "seconds", header: "7", want: 7 * time.Second},
		{name: "http date", header: httpTime, want: 2 * time.Second},
		{name: "fallback", header: "bad", want: 5 * time.Second},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseRetryAfter(tc.header)
			if tc.header == httpTime {
				if got <= time.Second || got > 3*time.Second {
					t.Fatalf("unexpected retry duration %v", got)
				}
			} else if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
