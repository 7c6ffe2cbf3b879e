package collector

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/icecake0141/switchmap/internal/snmp"
)

// bridgePortMap builds the bridge-port-number to ifIndex mapping from
// dot1dBasePortIfIndex. Rows whose value is not a non-negative integer are
// dropped. A failed table fetch yields an empty map: a topology with no
// forwarding data is a degraded result, not a fatal one.
func (c *Collector) bridgePortMap(ctx context.Context, src snmp.TableSource) map[string]int {
	rows, err := src.FetchTable(ctx, snmp.OIDDot1dBasePortIfIndex)
	if err != nil {
		c.logger.Debug("bridge port table unavailable", zap.Error(err))
		return map[string]int{}
	}

	mapping := make(map[string]int, len(rows))
	for oid, value := range rows {
		ifIndex, err := strconv.Atoi(value)
		if err != nil || ifIndex < 0 {
			continue
		}
		mapping[lastComponent(oid)] = ifIndex
	}
	return mapping
}
