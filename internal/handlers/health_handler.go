package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Pinger depolama katmanının canlılık kontrolü
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler /health endpoint'i. pinger nil ise (memory storage) sadece süreç kontrol edilir.
func HealthHandler(pinger Pinger, storage string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]interface{}{
			"status":    "ok",
			"storage":   storage,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}

		if pinger != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := pinger.PingContext(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body["error"] = "veritabanına ulaşılamıyor"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}
