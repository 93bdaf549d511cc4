package middleware

import (
	"crypto/subtle"
	"log"
	"net/http"

	"smartwaste-dashboard/pkg/utils"
)

// SensorKeyHeader carries the shared secret bin sensors post with.
const SensorKeyHeader = "X-Sensor-Key"

// SensorKey guards sensor ingestion with a shared key. An empty key leaves
// the endpoint open, which is how local development runs.
func SensorKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			log.Println("⚠️  SENSOR_API_KEY not set, sensor ingestion is unauthenticated")
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(SensorKeyHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				utils.RespondError(w, http.StatusUnauthorized, "Invalid sensor key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
