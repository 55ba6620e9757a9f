package http

import "testing"

func hasRoute(s *Server, method, path string) bool {
	for _, r := range s.Echo().Routes() {
		if r.Method == method && r.Path == path {
			return true
		}
	}
	return false
}

func TestServerMetricsRouteDefault(t *testing.T) {
	s := NewServer(nil)
	if !hasRoute(s, "GET", "/metrics") {
		t.Fatalf("expected /metrics registered by default")
	}
}

func TestServerMetricsRouteDisabled(t *testing.T) {
	s := NewServer(nil, WithMetricsRoute(false, ""))
	if hasRoute(s, "GET", "/metrics") {
		t.Fatalf("expected /metrics absent when disabled")
	}
}

func TestServerMetricsRouteCustomPath(t *testing.T) {
	s := NewServer(nil, WithMetricsRoute(true, "/internal/metrics"))
	if !hasRoute(s, "GET", "/internal/metrics") {
		t.Fatalf("expected custom metrics path registered")
	}
	if hasRoute(s, "GET", "/metrics") {
		t.Fatalf("default path must not be registered alongside the custom one")
	}
}
