package web

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes wires the HTTP surface.
func SetupRoutes(s *Server) http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/entries/active", s.Entries.HandleActive).Methods(http.MethodGet)
	api.HandleFunc("/entries/other", s.Entries.HandleOther).Methods(http.MethodGet)
	api.HandleFunc("/counts", s.Entries.HandleCounts).Methods(http.MethodGet)
	api.HandleFunc("/history", s.History.HandleRecent).Methods(http.MethodGet)
	api.HandleFunc("/survey.pdf", s.Report.HandleSurvey).Methods(http.MethodGet)

	// Entry keys contain colons and commas, so match anything up to the
	// trailing action segment.
	api.HandleFunc("/entries/{key:.+}/connect", s.Connect.HandleConnect).Methods(http.MethodPost)
	api.HandleFunc("/entries/{key:.+}/disconnect", s.Connect.HandleDisconnect).Methods(http.MethodPost)

	r.HandleFunc("/ws", s.WSManager.HandleWebSocket)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
