package domain

import (
	"fmt"
	"strings"
)

// ScanResultKey is the identity of one logical network as seen over the
// air: the SSID plus the security family its capabilities collapse into.
// Immutable once constructed.
type ScanResultKey struct {
	SSID   string
	Family SecurityFamily
}

// NewScanResultKey parses a beacon capability string and collapses it to a
// family. When a beacon advertises types from more than one family (rare,
// and usually a misconfigured AP) the first parsed type wins.
func NewScanResultKey(ssid, capabilities string) ScanResultKey {
	types := ParseCapabilities(capabilities)
	fam := FamilyUnknown
	if len(types) > 0 {
		fam = FamilyOf(types[0])
	}
	return ScanResultKey{SSID: ssid, Family: fam}
}

func (k ScanResultKey) String() string {
	return k.SSID + "," + k.Family.String()
}

// EntryKey identifies one entry across every cache. Resolved carries the
// concrete security type when the key was derived from a configuration; it
// is advisory and deliberately excluded from equality so that a key built
// from a configuration equals the key built from the configuration's
// equivalent scan observation.
type EntryKey struct {
	Scan      ScanResultKey
	TargetNew bool
	Resolved  SecurityType // SecurityUnknown when derived from a scan
}

// KeyForScan derives an EntryKey directly from a scan identity.
func KeyForScan(scan ScanResultKey, targetNew bool) EntryKey {
	return EntryKey{Scan: scan, TargetNew: targetNew}
}

// KeyForConfig derives an EntryKey from a configuration. The config's
// concrete type must belong to exactly one family; that family becomes the
// scan-side identity.
func KeyForConfig(cfg NetworkConfig) (EntryKey, error) {
	fam := FamilyOf(cfg.Security)
	if fam == FamilyUnknown {
		return EntryKey{}, fmt.Errorf("config %q: security type %v maps to no family", cfg.SSID, cfg.Security)
	}
	return EntryKey{
		Scan:      ScanResultKey{SSID: cfg.SSID, Family: fam},
		TargetNew: cfg.TargetNew,
		Resolved:  cfg.Security,
	}, nil
}

// Equal is value equality over the identity-bearing fields only.
func (k EntryKey) Equal(o EntryKey) bool {
	return k.Scan == o.Scan && k.TargetNew == o.TargetNew
}

// String is the canonical serialized form used as the map key in every
// cache and in the HTTP API.
func (k EntryKey) String() string {
	t := "cur"
	if k.TargetNew {
		t = "new"
	}
	return fmt.Sprintf("%s:%s,%s", t, k.Scan.SSID, k.Scan.Family)
}

// ParseEntryKey reverses String. The SSID may itself contain commas, so the
// family is taken from the final comma-separated token.
func ParseEntryKey(s string) (EntryKey, error) {
	prefix, rest, ok := strings.Cut(s, ":")
	if !ok || (prefix != "cur" && prefix != "new") {
		return EntryKey{}, fmt.Errorf("malformed entry key %q", s)
	}
	idx := strings.LastIndex(rest, ",")
	if idx < 0 {
		return EntryKey{}, fmt.Errorf("malformed entry key %q: missing family", s)
	}
	ssid, famName := rest[:idx], rest[idx+1:]
	fam := FamilyUnknown
	for f, n := range familyNames {
		if n == famName {
			fam = f
			break
		}
	}
	if fam == FamilyUnknown {
		return EntryKey{}, fmt.Errorf("malformed entry key %q: unknown family %q", s, famName)
	}
	return EntryKey{Scan: ScanResultKey{SSID: ssid, Family: fam}, TargetNew: prefix == "new"}, nil
}
