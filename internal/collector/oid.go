package collector

import (
	"fmt"
	"strconv"
	"strings"
)

// lastComponent returns the final dot-separated component of an OID. For a
// simple single-index table this is the row's index. The value is returned
// verbatim; callers treat a non-numeric component as "no identity", not as
// an error.
func lastComponent(oid string) string {
	if i := strings.LastIndex(oid, "."); i >= 0 {
		return oid[i+1:]
	}
	return oid
}

// indexSuffix returns the index portion of oid below prefix. The second
// return is false when oid does not begin with the prefix on a component
// boundary.
func indexSuffix(oid, prefix string) (string, bool) {
	if oid == prefix {
		return "", true
	}
	if !strings.HasPrefix(oid, prefix+".") {
		return "", false
	}
	return oid[len(prefix)+1:], true
}

// formatMACOctets converts dot-separated decimal octets to the canonical
// lowercase colon-joined MAC form. Each octet must be a decimal value in
// 0..255.
func formatMACOctets(octets []string) (string, bool) {
	parts := make([]string, len(octets))
	for i, o := range octets {
		n, err := strconv.Atoi(o)
		if err != nil || n < 0 || n > 255 {
			return "", false
		}
		parts[i] = fmt.Sprintf("%02x", n)
	}
	return strings.Join(parts, ":"), true
}

// macFromOID decodes the forwarding-database row index of oid under prefix.
// In the legacy BRIDGE-MIB form the index is exactly the six MAC octets; in
// the VLAN-aware Q-BRIDGE form it is the VLAN id followed by the six octets,
// and the VLAN id is returned alongside the address. Returns ok=false when
// the OID is outside the prefix or the index does not decode.
func macFromOID(oid, prefix string, vlanAware bool) (mac, vlanID string, ok bool) {
	suffix, ok := indexSuffix(oid, prefix)
	if !ok {
		return "", "", false
	}
	parts := strings.Split(suffix, ".")
	if vlanAware {
		if len(parts) < 7 {
			return "", "", false
		}
		vlanID = parts[0]
		parts = parts[1:7]
	} else {
		if len(parts) < 6 {
			return "", "", false
		}
		parts = parts[:6]
	}
	mac, ok = formatMACOctets(parts)
	if !ok {
		return "", "", false
	}
	return mac, vlanID, true
}

// statusOID maps a forwarding-port row OID onto the corresponding row of the
// status table by substituting the status-table prefix over the same index
// suffix.
func statusOID(portBase, statusBase, portOID string) string {
	suffix, ok := indexSuffix(portOID, portBase)
	if !ok || suffix == "" {
		return statusBase
	}
	return statusBase + "." + suffix
}
