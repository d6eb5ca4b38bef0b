package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/stickerart/art-ledger/internal/metrics"
)

// MetricsMiddleware istekleri Prometheus'a kaydeder. Route etiketi mux'un
// path şablonudur, böylece user id'ler ayrı seri oluşturmaz.
func MetricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			m.InFlight(1)
			defer m.InFlight(-1)

			wrapped := newResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			m.ObserveHTTP(routeTemplate(r), r.Method, strconv.Itoa(wrapped.statusCode), time.Since(start))
		})
	}
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
