package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/wifitrack/internal/core/domain"
	"github.com/lcalzada-xor/wifitrack/internal/core/services/entries"
)

func scanEntry(t *testing.T, ssid string, rssi int) entries.Entry {
	t.Helper()
	key := domain.KeyForScan(domain.ScanResultKey{SSID: ssid, Family: domain.FamilyPersonal}, false)
	e := entries.NewStandardEntry(key, false)
	require.NoError(t, e.UpdateScanInfo([]domain.ScanObservation{{
		SSID:         ssid,
		Capabilities: "[WPA2-PSK-CCMP][ESS]",
		Timestamp:    time.Now(),
		RSSI:         rssi,
	}}))
	return e
}

func TestExportProducesPDF(t *testing.T) {
	var buf bytes.Buffer
	err := NewPDFExporter().Export(&buf, Survey{
		GeneratedAt:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Other:             []entries.Entry{scanEntry(t, "Cafe", -60)},
		SavedCount:        2,
		SubscriptionCount: 1,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
	assert.Greater(t, buf.Len(), 500)
}

func TestExportEmptySurvey(t *testing.T) {
	var buf bytes.Buffer
	err := NewPDFExporter().Export(&buf, Survey{GeneratedAt: time.Now()})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
}

func TestExportTruncatesLongTitles(t *testing.T) {
	long := scanEntry(t, strings.Repeat("VeryLongNetworkName", 5), -60)
	var buf bytes.Buffer
	err := NewPDFExporter().Export(&buf, Survey{
		GeneratedAt: time.Now(),
		Other:       []entries.Entry{long},
	})
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())
}
