package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/lcalzada-xor/wifitrack/internal/adapters/report"
	"github.com/lcalzada-xor/wifitrack/internal/core/domain"
	"github.com/lcalzada-xor/wifitrack/internal/core/ports"
	"github.com/lcalzada-xor/wifitrack/internal/core/services/entries"
	"github.com/lcalzada-xor/wifitrack/internal/core/services/tracker"
	"github.com/lcalzada-xor/wifitrack/internal/telemetry"
)

// connectWait bounds how long an HTTP connect request waits for a result
// before answering 202 with a pending status.
const connectWait = 15 * time.Second

// entryView is the JSON projection of a tracked entry.
type entryView struct {
	Key            string   `json:"key"`
	Kind           string   `json:"kind"`
	Title          string   `json:"title"`
	State          string   `json:"state"`
	Level          int      `json:"level"`
	Security       []string `json:"security"`
	Saved          bool     `json:"saved"`
	Suggestion     bool     `json:"suggestion"`
	Subscription   bool     `json:"subscription"`
	Primary        bool     `json:"primary"`
	LastScanTime   string   `json:"last_scan_time,omitempty"`
	ConnectedSince string   `json:"connected_since,omitempty"`
}

func toView(e entries.Entry) entryView {
	v := entryView{
		Key:          e.Key(),
		Kind:         string(e.Kind()),
		Title:        e.Title(),
		State:        e.ConnectionState().String(),
		Level:        e.Level(),
		Saved:        e.IsSaved(),
		Suggestion:   e.IsSuggestion(),
		Subscription: e.IsSubscription(),
		Primary:      e.IsPrimary(),
	}
	for _, t := range e.SecurityTypes() {
		v.Security = append(v.Security, t.String())
	}
	if ts := e.LastScanTime(); !ts.IsZero() {
		v.LastScanTime = ts.Format(time.RFC3339)
	}
	if ts := e.ConnectedSince(); !ts.IsZero() {
		v.ConnectedSince = ts.Format(time.RFC3339)
	}
	return v
}

func toViews(list []entries.Entry) []entryView {
	views := make([]entryView, len(list))
	for i, e := range list {
		views[i] = toView(e)
	}
	return views
}

// EntriesHandler serves the tracker's snapshot lists.
type EntriesHandler struct {
	Tracker *tracker.Tracker
}

func NewEntriesHandler(t *tracker.Tracker) *EntriesHandler {
	return &EntriesHandler{Tracker: t}
}

// HandleActive returns the connected and connecting entries.
func (h *EntriesHandler) HandleActive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, toViews(h.Tracker.ActiveEntries()))
}

// HandleOther returns the remaining visible entries.
func (h *EntriesHandler) HandleOther(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, toViews(h.Tracker.OtherEntries()))
}

// HandleCounts returns the saved and subscription counts.
func (h *EntriesHandler) HandleCounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]int{
		"saved":         h.Tracker.SavedCount(),
		"subscriptions": h.Tracker.SubscriptionCount(),
	})
}

// ConnectHandler triggers connect and disconnect flows.
type ConnectHandler struct {
	Tracker *tracker.Tracker
}

func NewConnectHandler(t *tracker.Tracker) *ConnectHandler {
	return &ConnectHandler{Tracker: t}
}

// HandleConnect starts a connection attempt for the entry in the URL and
// waits briefly for the outcome.
func (h *ConnectHandler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key == "" {
		http.Error(w, "missing entry key", http.StatusBadRequest)
		return
	}
	telemetry.ConnectRequests.WithLabelValues("connect").Inc()

	result := make(chan domain.ConnectStatus, 1)
	h.Tracker.Connect(key, func(status domain.ConnectStatus) {
		result <- status
	})

	select {
	case status := <-result:
		telemetry.ConnectResults.WithLabelValues(status.String()).Inc()
		code := http.StatusOK
		if status != domain.ConnectStatusSuccess {
			code = http.StatusBadGateway
		}
		writeJSONStatus(w, code, map[string]string{"status": status.String()})
	case <-time.After(connectWait):
		writeJSONStatus(w, http.StatusAccepted, map[string]string{"status": "PENDING"})
	case <-r.Context().Done():
	}
}

// HandleDisconnect tears down the connection for the entry in the URL.
func (h *ConnectHandler) HandleDisconnect(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key == "" {
		http.Error(w, "missing entry key", http.StatusBadRequest)
		return
	}
	telemetry.ConnectRequests.WithLabelValues("disconnect").Inc()

	result := make(chan domain.ConnectStatus, 1)
	h.Tracker.Disconnect(key, func(status domain.ConnectStatus) {
		result <- status
	})

	select {
	case status := <-result:
		writeJSON(w, map[string]string{"status": status.String()})
	case <-time.After(connectWait):
		writeJSONStatus(w, http.StatusAccepted, map[string]string{"status": "PENDING"})
	case <-r.Context().Done():
	}
}

// HistoryHandler serves persisted sighting history.
type HistoryHandler struct {
	Store ports.SightingStore
}

func NewHistoryHandler(store ports.SightingStore) *HistoryHandler {
	return &HistoryHandler{Store: store}
}

// HandleRecent returns the newest sightings. Accepts ?limit=N.
func (h *HistoryHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		http.Error(w, "history disabled", http.StatusNotFound)
		return
	}
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	sightings, err := h.Store.RecentSightings(limit)
	if err != nil {
		slog.Error("history query failed", "error", err)
		http.Error(w, "history query failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, sightings)
}

// ReportHandler generates the survey PDF.
type ReportHandler struct {
	Tracker  *tracker.Tracker
	Exporter *report.PDFExporter
}

func NewReportHandler(t *tracker.Tracker, exporter *report.PDFExporter) *ReportHandler {
	return &ReportHandler{Tracker: t, Exporter: exporter}
}

// HandleSurvey streams a PDF survey of the current snapshots.
func (h *ReportHandler) HandleSurvey(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=wifitrack_survey.pdf")

	err := h.Exporter.Export(w, report.Survey{
		GeneratedAt:       time.Now(),
		Active:            h.Tracker.ActiveEntries(),
		Other:             h.Tracker.OtherEntries(),
		SavedCount:        h.Tracker.SavedCount(),
		SubscriptionCount: h.Tracker.SubscriptionCount(),
	})
	if err != nil {
		slog.Error("survey export failed", "error", err)
		http.Error(w, "survey export failed", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response encode failed", "error", err)
	}
}

func writeJSONStatus(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response encode failed", "error", err)
	}
}
