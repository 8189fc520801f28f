package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the API router with CORS, recovery and request metrics
// applied to every route.
func NewRouter(h *Handlers, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(requestMetrics)

	api.HandleFunc("/waste", h.logWaste).Methods("POST")
	api.HandleFunc("/waste", h.listEntries).Methods("GET")
	api.HandleFunc("/waste/stats", h.getStats).Methods("GET")
	api.HandleFunc("/waste/alerts", h.getAlerts).Methods("GET")
	api.HandleFunc("/waste/history", h.getHistory).Methods("GET")
	api.HandleFunc("/waste/reset", h.resetData).Methods("DELETE")

	api.HandleFunc("/baselines", h.saveBaseline).Methods("POST")
	api.HandleFunc("/baselines", h.listBaselines).Methods("GET")
	api.HandleFunc("/baselines/{department}", h.deleteBaseline).Methods("DELETE")

	cors := handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	return handlers.RecoveryHandler()(cors(r))
}
