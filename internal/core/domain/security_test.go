package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCapabilities(t *testing.T) {
	tests := []struct {
		caps string
		want []SecurityType
	}{
		{"[WPA2-PSK-CCMP][ESS]", []SecurityType{SecurityPSK}},
		{"[RSN-SAE-CCMP][ESS]", []SecurityType{SecuritySAE}},
		{"[WPA2-PSK-CCMP][RSN-SAE-CCMP][ESS]", []SecurityType{SecuritySAE, SecurityPSK}},
		{"[WPA2-EAP-CCMP][ESS]", []SecurityType{SecurityEAP}},
		{"[RSN-EAP-SHA256-CCMP][ESS]", []SecurityType{SecurityEAPWPA3}},
		{"[RSN-EAP_SUITE_B_192-GCMP-256][ESS]", []SecurityType{SecurityEAPWPA3}},
		{"[WEP][ESS]", []SecurityType{SecurityWEP}},
		{"[RSN-OWE-CCMP][ESS]", []SecurityType{SecurityOWE}},
		{"[ESS]", []SecurityType{SecurityOpen}},
		{"", []SecurityType{SecurityOpen}},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ParseCapabilities(tc.caps), "caps %q", tc.caps)
	}
}

func TestCapabilitiesFor_RoundTripsThroughParse(t *testing.T) {
	for _, typ := range []SecurityType{
		SecurityOpen, SecurityOWE, SecurityWEP, SecurityPSK,
		SecuritySAE, SecurityEAP, SecurityEAPWPA3,
	} {
		parsed := ParseCapabilities(CapabilitiesFor(typ))
		assert.Equal(t, []SecurityType{typ}, parsed, "type %s", typ)
	}
}

func TestFamilyOf(t *testing.T) {
	assert.Equal(t, FamilyOpen, FamilyOf(SecurityOpen))
	assert.Equal(t, FamilyOpen, FamilyOf(SecurityOWE))
	assert.Equal(t, FamilyWEP, FamilyOf(SecurityWEP))
	assert.Equal(t, FamilyPersonal, FamilyOf(SecurityPSK))
	assert.Equal(t, FamilyPersonal, FamilyOf(SecuritySAE))
	assert.Equal(t, FamilyEnterprise, FamilyOf(SecurityEAP))
	assert.Equal(t, FamilyEnterprise, FamilyOf(SecurityEAPWPA3))
	assert.Equal(t, FamilyUnknown, FamilyOf(SecurityUnknown))
}

func TestLevelForRSSI(t *testing.T) {
	tests := []struct {
		rssi int
		want int
	}{
		{-30, 4},
		{-55, 4},
		{-56, 3},
		{-66, 3},
		{-67, 2},
		{-77, 2},
		{-78, 1},
		{-88, 1},
		{-89, 0},
		{-100, 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, LevelForRSSI(tc.rssi), "rssi %d", tc.rssi)
	}
}
