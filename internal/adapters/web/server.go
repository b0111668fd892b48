package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/lcalzada-xor/wifitrack/internal/adapters/report"
	"github.com/lcalzada-xor/wifitrack/internal/core/ports"
	"github.com/lcalzada-xor/wifitrack/internal/core/services/tracker"
)

// Server handles HTTP and WebSocket connections.
type Server struct {
	Addr      string
	WSManager *WSManager
	Entries   *EntriesHandler
	Connect   *ConnectHandler
	History   *HistoryHandler
	Report    *ReportHandler
	srv       *http.Server
}

// NewServer creates a web server over the given tracker. The returned
// server's WSManager must be registered as a tracker listener by the
// caller so change events reach websocket clients.
func NewServer(addr string, t *tracker.Tracker, store ports.SightingStore, exporter *report.PDFExporter) *Server {
	return &Server{
		Addr:      addr,
		WSManager: NewWSManager(addr),
		Entries:   NewEntriesHandler(t),
		Connect:   NewConnectHandler(t),
		History:   NewHistoryHandler(store),
		Report:    NewReportHandler(t, exporter),
	}
}

// Run starts the server and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	handler := SetupRoutes(s)

	// Instrument with OpenTelemetry.
	instrumentedHandler := otelhttp.NewHandler(handler, "wifitrack-server")

	s.srv = &http.Server{
		Addr:              s.Addr,
		Handler:           instrumentedHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("web server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("web server shutdown error", "error", err)
		}
		s.WSManager.Close()
	}()

	slog.Info("web server listening", "addr", s.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
