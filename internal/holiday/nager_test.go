package holiday

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNagerSource_Holidays(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"date":"2024-01-01","localName":"새해","name":"New Year's Day","types":["Public"]},
			{"date":"2024-02-10","localName":"","name":"Lunar New Year","types":["Public"]}
		]`))
	}))
	defer srv.Close()

	src := NewNagerSource(srv.URL+"/", logger)
	holidays, err := src.Holidays(context.Background(), 2024, "kr")
	if err != nil {
		t.Fatalf("Holidays() error = %v", err)
	}

	if gotPath != "/api/v3/PublicHolidays/2024/KR" {
		t.Errorf("request path = %q, want /api/v3/PublicHolidays/2024/KR", gotPath)
	}
	if len(holidays) != 2 {
		t.Fatalf("Holidays() count = %d, want 2", len(holidays))
	}
	if holidays[0].Date != "2024-01-01" || holidays[0].Name != "새해" {
		t.Errorf("holidays[0] = %+v", holidays[0])
	}
	// localName falls back to name
	if holidays[1].Name != "Lunar New Year" {
		t.Errorf("holidays[1].Name = %q, want Lunar New Year", holidays[1].Name)
	}
}

func TestNagerSource_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantNoData bool
	}{
		{name: "not found", status: http.StatusNotFound, body: ``},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`},
		{name: "empty body", status: http.StatusOK, body: "  ", wantNoData: true},
		{name: "malformed json", status: http.StatusOK, body: `{"date":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			src := NewNagerSource(srv.URL, nil)
			src.retryDelay = 0
			_, err := src.Holidays(context.Background(), 2024, "KR")
			if err == nil {
				t.Fatal("Holidays() expected error, got nil")
			}
			if got := errors.Is(err, ErrNoData); got != tt.wantNoData {
				t.Errorf("errors.Is(err, ErrNoData) = %v, want %v (err = %v)", got, tt.wantNoData, err)
			}
		})
	}
}

func TestNagerSource_Retry(t *testing.T) {
	tests := []struct {
		name         string
		failures     int
		status       int
		wantErr      bool
		wantAttempts int32
	}{
		{name: "recovers after server errors", failures: 2, status: http.StatusServiceUnavailable, wantAttempts: 3},
		{name: "gives up after max retries", failures: 5, status: http.StatusBadGateway, wantErr: true, wantAttempts: defaultRetries},
		{name: "client errors are not retried", failures: 5, status: http.StatusBadRequest, wantErr: true, wantAttempts: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if int(attempts.Add(1)) <= tt.failures {
					w.WriteHeader(tt.status)
					return
				}
				w.Write([]byte(`[{"date":"2024-12-25","name":"Christmas Day"}]`))
			}))
			defer srv.Close()

			src := NewNagerSource(srv.URL, nil)
			src.retryDelay = time.Millisecond
			_, err := src.Holidays(context.Background(), 2024, "KR")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Holidays() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := attempts.Load(); got != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", got, tt.wantAttempts)
			}
		})
	}
}

func TestNagerSource_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewNagerSource(srv.URL, nil).Holidays(ctx, 2024, "KR"); err == nil {
		t.Error("Holidays() expected error for cancelled context, got nil")
	}
}

func TestParseNagerResponse(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCount int
		wantErr   bool
	}{
		{name: "empty array", body: `[]`, wantCount: 0},
		{name: "single", body: `[{"date":"2025-12-25","name":"Christmas Day"}]`, wantCount: 1},
		{name: "object instead of array", body: `{"date":"2025-12-25"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			holidays, err := parseNagerResponse([]byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseNagerResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(holidays) != tt.wantCount {
				t.Errorf("count = %d, want %d", len(holidays), tt.wantCount)
			}
		})
	}
}
