package domain

import "strings"

// SecurityType is a concrete authentication type a network may advertise or
// a configuration may target.
type SecurityType int

const (
	SecurityUnknown SecurityType = iota
	SecurityOpen
	SecurityOWE
	SecurityWEP
	SecurityPSK
	SecuritySAE
	SecurityEAP
	SecurityEAPWPA3 // WPA3-Enterprise (192-bit or standard)
)

var securityNames = map[SecurityType]string{
	SecurityUnknown: "UNKNOWN",
	SecurityOpen:    "OPEN",
	SecurityOWE:     "OWE",
	SecurityWEP:     "WEP",
	SecurityPSK:     "PSK",
	SecuritySAE:     "SAE",
	SecurityEAP:     "EAP",
	SecurityEAPWPA3: "EAP-WPA3",
}

func (s SecurityType) String() string {
	if n, ok := securityNames[s]; ok {
		return n
	}
	return "UNKNOWN"
}

// SecurityFamily groups related security types into one identity for
// scan-based matching. An AP broadcasting WPA2-PSK and WPA3-SAE in a
// transition-mode beacon is still one logical network.
type SecurityFamily int

const (
	FamilyUnknown SecurityFamily = iota
	FamilyOpen                   // OPEN, OWE
	FamilyWEP                    // WEP
	FamilyPersonal               // PSK, SAE
	FamilyEnterprise             // EAP, EAP-WPA3
)

var familyNames = map[SecurityFamily]string{
	FamilyUnknown:    "UNKNOWN",
	FamilyOpen:       "OPEN",
	FamilyWEP:        "WEP",
	FamilyPersonal:   "PERSONAL",
	FamilyEnterprise: "ENTERPRISE",
}

func (f SecurityFamily) String() string {
	if n, ok := familyNames[f]; ok {
		return n
	}
	return "UNKNOWN"
}

// familyOf is the fixed collapsing table.
var familyOf = map[SecurityType]SecurityFamily{
	SecurityOpen:    FamilyOpen,
	SecurityOWE:     FamilyOpen,
	SecurityWEP:     FamilyWEP,
	SecurityPSK:     FamilyPersonal,
	SecuritySAE:     FamilyPersonal,
	SecurityEAP:     FamilyEnterprise,
	SecurityEAPWPA3: FamilyEnterprise,
}

// FamilyOf returns the family a concrete security type collapses into.
func FamilyOf(t SecurityType) SecurityFamily {
	if f, ok := familyOf[t]; ok {
		return f
	}
	return FamilyUnknown
}

// FamilyTypes returns the full ordered member set of a family. Legacy types
// sort before their upgraded counterparts so display code prefers the type
// most clients can actually use.
func FamilyTypes(f SecurityFamily) []SecurityType {
	switch f {
	case FamilyOpen:
		return []SecurityType{SecurityOpen, SecurityOWE}
	case FamilyWEP:
		return []SecurityType{SecurityWEP}
	case FamilyPersonal:
		return []SecurityType{SecurityPSK, SecuritySAE}
	case FamilyEnterprise:
		return []SecurityType{SecurityEAP, SecurityEAPWPA3}
	default:
		return nil
	}
}

// ParseCapabilities extracts the concrete security types advertised by a
// beacon capability string such as "[WPA2-PSK-CCMP][RSN-SAE-CCMP][ESS]".
// An empty or IE-less string means an open network.
func ParseCapabilities(caps string) []SecurityType {
	var out []SecurityType
	seen := map[SecurityType]bool{}
	add := func(t SecurityType) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}

	upper := strings.ToUpper(caps)
	switch {
	case strings.Contains(upper, "EAP_SUITE_B") || strings.Contains(upper, "EAP-SUITE-B"):
		add(SecurityEAPWPA3)
	}
	if strings.Contains(upper, "WPA3-EAP") || strings.Contains(upper, "EAP-SHA256") {
		add(SecurityEAPWPA3)
	}
	if strings.Contains(upper, "EAP") && !seen[SecurityEAPWPA3] {
		add(SecurityEAP)
	}
	if strings.Contains(upper, "SAE") {
		add(SecuritySAE)
	}
	if strings.Contains(upper, "PSK") {
		add(SecurityPSK)
	}
	if strings.Contains(upper, "WEP") {
		add(SecurityWEP)
	}
	if strings.Contains(upper, "OWE") {
		add(SecurityOWE)
	}
	if len(out) == 0 {
		add(SecurityOpen)
	}
	return out
}

// CapabilitiesFor renders a minimal capability string advertising exactly
// one security type. It is the inverse of ParseCapabilities for a single
// type and exists so entry keys derived from configurations and from scans
// can be cross-checked.
func CapabilitiesFor(t SecurityType) string {
	switch t {
	case SecurityOWE:
		return "[RSN-OWE-CCMP][ESS]"
	case SecurityWEP:
		return "[WEP][ESS]"
	case SecurityPSK:
		return "[WPA2-PSK-CCMP][ESS]"
	case SecuritySAE:
		return "[RSN-SAE-CCMP][ESS]"
	case SecurityEAP:
		return "[WPA2-EAP-CCMP][ESS]"
	case SecurityEAPWPA3:
		return "[RSN-EAP-SHA256-CCMP][ESS]"
	default:
		return "[ESS]"
	}
}

// Signal level buckets. LevelUnreachable marks an entry with no usable scan
// and no live connection.
const (
	LevelUnreachable = -1
	LevelMin         = 0
	LevelMax         = 4
)

// LevelForRSSI buckets a raw RSSI (dBm) into the 0..4 display range.
func LevelForRSSI(rssi int) int {
	switch {
	case rssi >= -55:
		return 4
	case rssi >= -66:
		return 3
	case rssi >= -77:
		return 2
	case rssi >= -88:
		return 1
	default:
		return 0
	}
}
