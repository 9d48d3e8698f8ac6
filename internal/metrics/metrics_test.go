package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestHandlerExposesCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewServerMetrics(reg)

	m.Requests.WithLabelValues("/api/books/all", http.MethodGet, "200").Inc()
	m.Orders.WithLabelValues("COD", "accepted").Inc()

	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, w.Code)
	}

	body, _ := io.ReadAll(w.Body)

	for _, want := range []string{
		`bookstore_http_requests_total{handler="/api/books/all",method="GET",status="200"} 1`,
		`bookstore_checkout_orders_total{method="COD",outcome="accepted"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("expected output to contain %q", want)
		}
	}
}

func TestNewServerMetricsPanicsOnDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewServerMetrics(reg)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()

	NewServerMetrics(reg)
}
