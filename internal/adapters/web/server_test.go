package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/wifitrack/internal/adapters/report"
	"github.com/lcalzada-xor/wifitrack/internal/core/domain"
	"github.com/lcalzada-xor/wifitrack/internal/core/services/tracker"
)

type stubPlatform struct {
	results []domain.ScanObservation
	configs []domain.NetworkConfig
}

func (s *stubPlatform) ScanResults() []domain.ScanObservation               { return s.results }
func (s *stubPlatform) RequestScan(ctx context.Context, done func(bool))    {}
func (s *stubPlatform) Configurations() []domain.NetworkConfig              { return s.configs }
func (s *stubPlatform) PasspointProfiles() []domain.PasspointProfile        { return nil }
func (s *stubPlatform) ConnectNetwork(ctx context.Context, id int) error    { return nil }
func (s *stubPlatform) DisconnectNetwork(ctx context.Context, id int) error { return nil }

func (s *stubPlatform) MatchPasspointProviders(obs []domain.ScanObservation) []domain.PasspointMatch {
	return nil
}

type stubStore struct {
	sightings []domain.Sighting
}

func (s *stubStore) SaveSightingsBatch(batch []domain.Sighting) error { return nil }
func (s *stubStore) RecentSightings(limit int) ([]domain.Sighting, error) {
	if limit < len(s.sightings) {
		return s.sightings[:limit], nil
	}
	return s.sightings, nil
}
func (s *stubStore) LastSeen(entryKey string) (time.Time, bool, error) { return time.Time{}, false, nil }
func (s *stubStore) Close() error                                      { return nil }

func newTestServer(t *testing.T, platform *stubPlatform, store *stubStore) (*Server, *httptest.Server) {
	tr := tracker.New(tracker.Options{}, platform, platform, platform, nil, nil)
	tr.Start()
	t.Cleanup(tr.Stop)

	s := NewServer(":0", tr, store, report.NewPDFExporter())
	ts := httptest.NewServer(SetupRoutes(s))
	t.Cleanup(ts.Close)
	t.Cleanup(s.WSManager.Close)
	return s, ts
}

func scanNow(ssid, caps string, rssi int) domain.ScanObservation {
	return domain.ScanObservation{
		SSID: ssid, BSSID: "AA:BB:CC:00:11:22", Capabilities: caps,
		Timestamp: time.Now(), RSSI: rssi,
	}
}

func TestEntriesEndpoints(t *testing.T) {
	platform := &stubPlatform{
		results: []domain.ScanObservation{scanNow("Cafe", "[ESS]", -60)},
		configs: []domain.NetworkConfig{
			{SSID: "Cafe", Security: domain.SecurityOpen, NetworkID: 1, Saved: true},
		},
	}
	_, ts := newTestServer(t, platform, &stubStore{})

	resp, err := http.Get(ts.URL + "/api/entries/other")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var views []entryView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&views))
	require.Len(t, views, 1)
	assert.Equal(t, "cur:Cafe,OPEN", views[0].Key)
	assert.Equal(t, "disconnected", views[0].State)
	assert.True(t, views[0].Saved)
	assert.Equal(t, 3, views[0].Level)

	resp, err = http.Get(ts.URL + "/api/counts")
	require.NoError(t, err)
	defer resp.Body.Close()
	var counts map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&counts))
	assert.Equal(t, 1, counts["saved"])
	assert.Equal(t, 0, counts["subscriptions"])
}

func TestConnectEndpoint(t *testing.T) {
	platform := &stubPlatform{
		results: []domain.ScanObservation{scanNow("Cafe", "[ESS]", -60)},
		configs: []domain.NetworkConfig{
			{SSID: "Cafe", Security: domain.SecurityOpen, NetworkID: 1, Saved: true},
		},
	}
	_, ts := newTestServer(t, platform, &stubStore{})

	resp, err := http.Post(ts.URL+"/api/entries/cur:Cafe,OPEN/connect", "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "SUCCESS", body["status"])
}

func TestConnectEndpointUnknownKey(t *testing.T) {
	_, ts := newTestServer(t, &stubPlatform{}, &stubStore{})

	resp, err := http.Post(ts.URL+"/api/entries/cur:Nowhere,PERSONAL/connect", "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "FAILURE_NOT_REACHABLE", body["status"])
}

func TestHistoryEndpoint(t *testing.T) {
	store := &stubStore{sightings: []domain.Sighting{
		{EntryKey: "cur:Cafe,OPEN", Kind: "standard", Title: "Cafe", Level: 3, SeenAt: time.Now()},
		{EntryKey: "cur:Home,PERSONAL", Kind: "standard", Title: "Home", Level: 4, SeenAt: time.Now()},
	}}
	_, ts := newTestServer(t, &stubPlatform{}, store)

	resp, err := http.Get(ts.URL + "/api/history?limit=1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sightings []domain.Sighting
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sightings))
	assert.Len(t, sightings, 1)
}

func TestSurveyEndpoint(t *testing.T) {
	platform := &stubPlatform{
		results: []domain.ScanObservation{scanNow("Cafe", "[ESS]", -60)},
	}
	_, ts := newTestServer(t, platform, &stubStore{})

	resp, err := http.Get(ts.URL + "/api/survey.pdf")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "wifitrack_survey.pdf")
}

func TestWebSocketReceivesChangeEvents(t *testing.T) {
	platform := &stubPlatform{}
	s, ts := newTestServer(t, platform, &stubStore{})

	url := "ws" + ts.URL[len("http"):] + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	s.WSManager.OnEntriesChanged(domain.ReasonScanResults)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg WSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "entries_changed", msg.Type)
}
