package serve

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

// Launch blocks serving s on the given port until the listener fails.
func Launch(s *ComputeServer, targetPort int) {
	addr := fmt.Sprintf(":%d", targetPort)
	log.Infof("Starting server on %s", addr)
	if err := http.ListenAndServe(addr, s.Router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// CreateRoutes wires a JSON POST handler: the request body is decoded into T,
// fn produces an R encoded back to the client. A decode failure is the
// client's fault (400), an fn error the server's (500).
func CreateRoutes[T any, R any](
	r *chi.Mux,
	path string,
	fn func(T) (R, error),
) {
	r.Post(path, func(w http.ResponseWriter, r *http.Request) {
		var req T
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}

		res, err := fn(req)
		if err != nil {
			http.Error(w, "processing error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(res); err != nil {
			http.Error(w, "encode error: "+err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
