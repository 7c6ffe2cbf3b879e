package collector

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/icecake0141/switchmap/internal/snmp"
)

// fdbInvalidStatus is the dot1dTpFdbStatus / dot1qTpFdbStatus value meaning
// the row is no longer valid and must not contribute to the MAC set.
const fdbInvalidStatus = "2"

// fdbScheme identifies which forwarding-database tables a join runs against.
// The two schemes are mutually exclusive for a switch: whichever the probe
// selects is authoritative for the whole scan.
type fdbScheme struct {
	name      string
	portOID   string
	statusOID string
	vlanAware bool
}

var (
	vlanAwareScheme = fdbScheme{
		name:      "q-bridge",
		portOID:   snmp.OIDDot1qTpFdbPort,
		statusOID: snmp.OIDDot1qTpFdbStatus,
		vlanAware: true,
	}
	legacyScheme = fdbScheme{
		name:      "bridge",
		portOID:   snmp.OIDDot1dTpFdbPort,
		statusOID: snmp.OIDDot1dTpFdbStatus,
		vlanAware: false,
	}
)

// collectMACs joins the forwarding database against the bridge-port map and
// returns the learned MAC addresses per ifIndex, each set deduplicated and
// sorted. The VLAN-aware scheme is probed first and, if it yields any rows,
// used exclusively; the legacy scheme is the fallback. Either probe failing
// is "no data from this source", never an error.
func (c *Collector) collectMACs(ctx context.Context, src snmp.TableSource) map[int][]string {
	bridgePorts := c.bridgePortMap(ctx, src)
	if len(bridgePorts) == 0 {
		// No bridge port can be resolved, so neither scheme can produce
		// anything useful.
		return map[int][]string{}
	}

	rows, err := src.FetchTable(ctx, vlanAwareScheme.portOID)
	if err != nil {
		c.logger.Debug("VLAN-aware FDB table unavailable", zap.Error(err))
		rows = nil
	}
	if len(rows) > 0 {
		return c.joinFDB(ctx, src, vlanAwareScheme, rows, bridgePorts)
	}

	rows, err = src.FetchTable(ctx, legacyScheme.portOID)
	if err != nil {
		c.logger.Debug("legacy FDB table unavailable", zap.Error(err))
		return map[int][]string{}
	}
	return c.joinFDB(ctx, src, legacyScheme, rows, bridgePorts)
}

// joinFDB performs the actual join for one scheme: rows of the forwarding
// port table carry a bridge-port number as value and the MAC address encoded
// in their index suffix. Rows flagged invalid in the status table, rows with
// unparseable suffixes, and bridge ports absent from the resolver's mapping
// are all skipped without error.
func (c *Collector) joinFDB(
	ctx context.Context,
	src snmp.TableSource,
	scheme fdbScheme,
	portRows map[string]string,
	bridgePorts map[string]int,
) map[int][]string {
	statusRows, err := src.FetchTable(ctx, scheme.statusOID)
	if err != nil {
		c.logger.Debug("FDB status table unavailable",
			zap.String("scheme", scheme.name),
			zap.Error(err),
		)
		statusRows = nil
	}

	macSets := make(map[int]map[string]struct{})
	for oid, bridgePort := range portRows {
		if statusRows[statusOID(scheme.portOID, scheme.statusOID, oid)] == fdbInvalidStatus {
			continue
		}
		mac, _, ok := macFromOID(oid, scheme.portOID, scheme.vlanAware)
		if !ok {
			continue
		}
		ifIndex, ok := bridgePorts[bridgePort]
		if !ok {
			continue
		}
		set, ok := macSets[ifIndex]
		if !ok {
			set = make(map[string]struct{})
			macSets[ifIndex] = set
		}
		set[mac] = struct{}{}
	}

	result := make(map[int][]string, len(macSets))
	for ifIndex, set := range macSets {
		macs := make([]string, 0, len(set))
		for mac := range set {
			macs = append(macs, mac)
		}
		sort.Strings(macs)
		result[ifIndex] = macs
	}

	c.logger.Debug("forwarding database joined",
		zap.String("scheme", scheme.name),
		zap.Int("interfaces", len(result)),
	)

	return result
}
