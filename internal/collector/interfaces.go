package collector

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/icecake0141/switchmap/internal/snmp"
	"github.com/icecake0141/switchmap/pkg/models"
)

// normalizeStatus maps the IF-MIB admin/oper status codes to readable form.
// Unknown codes pass through unchanged; they are not an error.
func normalizeStatus(value string) string {
	switch value {
	case "1":
		return "up"
	case "2":
		return "down"
	default:
		return value
	}
}

// firstNonEmpty returns the first non-empty candidate. The port-name
// fallback chain (ifName, then ifDescr, then the raw index) is expressed as
// an ordered candidate list so the substitution order stays auditable.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

// interfaceTables holds the five IF-MIB tables the normalizer joins. All of
// them are mandatory: a transport failure here means the switch cannot be
// described at all.
type interfaceTables struct {
	names  map[string]string
	descrs map[string]string
	admin  map[string]string
	oper   map[string]string
	speeds map[string]string
}

// fetchInterfaceTables walks the mandatory IF-MIB tables. Any failure is
// returned to the caller, who wraps it into the per-switch collection error.
func (c *Collector) fetchInterfaceTables(ctx context.Context, src snmp.TableSource) (*interfaceTables, error) {
	t := &interfaceTables{}
	for _, q := range []struct {
		oid  string
		dest *map[string]string
	}{
		{snmp.OIDIfName, &t.names},
		{snmp.OIDIfDescr, &t.descrs},
		{snmp.OIDIfAdminStatus, &t.admin},
		{snmp.OIDIfOperStatus, &t.oper},
		{snmp.OIDIfSpeed, &t.speeds},
	} {
		rows, err := src.FetchTable(ctx, q.oid)
		if err != nil {
			return nil, fmt.Errorf("interface table %s: %w", q.oid, err)
		}
		*q.dest = rows
	}
	return t, nil
}

// buildPorts turns the interface tables into the ordered port list and an
// ifIndex lookup for attaching forwarding-database results. Ports are
// ordered by numeric ifIndex; rows with a non-numeric index keep their
// identity (the port still appears) but cannot receive MACs.
func buildPorts(t *interfaceTables, trunkPorts map[string]struct{}) ([]models.Port, map[int]int) {
	indexes := make([]string, 0, len(t.names))
	for oid := range t.names {
		indexes = append(indexes, lastComponent(oid))
	}
	sort.Slice(indexes, func(i, j int) bool {
		a, aErr := strconv.Atoi(indexes[i])
		b, bErr := strconv.Atoi(indexes[j])
		if aErr == nil && bErr == nil {
			return a < b
		}
		if aErr == nil {
			return true
		}
		if bErr == nil {
			return false
		}
		return indexes[i] < indexes[j]
	})

	ports := make([]models.Port, 0, len(indexes))
	byIfIndex := make(map[int]int, len(indexes))
	for _, index := range indexes {
		descr := t.descrs[snmp.OIDIfDescr+"."+index]
		name := firstNonEmpty(t.names[snmp.OIDIfName+"."+index], descr, index)

		port := models.Port{
			Name:        name,
			Descr:       descr,
			AdminStatus: normalizeStatus(t.admin[snmp.OIDIfAdminStatus+"."+index]),
			OperStatus:  normalizeStatus(t.oper[snmp.OIDIfOperStatus+"."+index]),
			MACs:        []string{},
		}
		if raw, ok := t.speeds[snmp.OIDIfSpeed+"."+index]; ok {
			if speed, err := strconv.ParseUint(raw, 10, 64); err == nil {
				port.Speed = &speed
			}
		}
		if _, ok := trunkPorts[name]; ok {
			port.IsTrunk = true
		}

		ports = append(ports, port)
		if ifIndex, err := strconv.Atoi(index); err == nil {
			byIfIndex[ifIndex] = len(ports) - 1
		}
	}
	return ports, byIfIndex
}
