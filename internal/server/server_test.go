// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"google.golang.org/grpc/health/grpc_health_v1"
)

type fakeProber struct {
	healthy atomic.Bool
}

func (f *fakeProber) IsHealthy(context.Context) bool {
	return f.healthy.Load()
}

func TestGRPCServer_HealthFollowsProber(t *testing.T) {
	prober := &fakeProber{}
	prober.healthy.Store(true)

	s := NewGRPCServer(0, prober)
	if err := s.Setup(); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	ctx := context.Background()

	check := func() grpc_health_v1.HealthCheckResponse_ServingStatus {
		resp, err := s.health.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
		if err != nil {
			t.Fatalf("Check() error = %v", err)
		}
		return resp.GetStatus()
	}

	s.updateHealth(ctx)
	if got := check(); got != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Errorf("status = %v, expected SERVING", got)
	}

	prober.healthy.Store(false)
	s.updateHealth(ctx)
	if got := check(); got != grpc_health_v1.HealthCheckResponse_NOT_SERVING {
		t.Errorf("status = %v, expected NOT_SERVING", got)
	}
}

func TestHTTPServer_Routes(t *testing.T) {
	prober := &fakeProber{}
	api := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	h := NewHTTPServer(8000, api, prober)
	if err := h.Setup(); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	tests := []struct {
		name    string
		path    string
		healthy bool
		want    int
	}{
		{"api is mounted", "/v1/players/p1/campaign", true, http.StatusTeapot},
		{"healthy store", "/healthz", true, http.StatusOK},
		{"unreachable store", "/healthz", false, http.StatusServiceUnavailable},
		{"unknown path", "/nope", true, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prober.healthy.Store(tt.healthy)
			rec := httptest.NewRecorder()
			h.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("GET %s = %d, expected %d", tt.path, rec.Code, tt.want)
			}
		})
	}
}

func TestMetricsServer_ExposesCampaignMetrics(t *testing.T) {
	m := NewMetricsServer(8080, "/metrics")
	if err := m.Setup(); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	rec := httptest.NewRecorder()
	m.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d", rec.Code)
	}
	for _, name := range []string{"campaign_engine_active_sessions", "go_goroutines"} {
		if !strings.Contains(rec.Body.String(), name) {
			t.Errorf("metrics output is missing %s", name)
		}
	}
}
