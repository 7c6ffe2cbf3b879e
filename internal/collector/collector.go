// Package collector joins the independently walked SNMP tables of one switch
// (interface table, bridge forwarding database, bridge-port map, VLAN table)
// into a coherent per-switch model. All blocking lives in the TableSource;
// the joins themselves are pure table work.
package collector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/icecake0141/switchmap/internal/snmp"
	"github.com/icecake0141/switchmap/pkg/models"
)

// CollectError marks a per-switch collection failure: one of the mandatory
// interface tables could not be fetched. Batch callers catch exactly this
// error, log it, and continue with the remaining switches; anything else is
// a programming error and must propagate.
type CollectError struct {
	Switch string
	Err    error
}

func (e *CollectError) Error() string {
	return fmt.Sprintf("collect switch %s: %v", e.Switch, e.Err)
}

func (e *CollectError) Unwrap() error { return e.Err }

// IsCollectError reports whether err is (or wraps) a per-switch collection
// failure.
func IsCollectError(err error) bool {
	var ce *CollectError
	return errors.As(err, &ce)
}

// Target identifies the switch being collected and carries the caller-side
// inputs the tables cannot provide.
type Target struct {
	Name         string
	ManagementIP string
	Vendor       string
	TrunkPorts   []string
}

// Collector assembles per-switch snapshots from a TableSource.
type Collector struct {
	logger *zap.Logger
}

// New creates a Collector.
func New(logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{logger: logger}
}

// Collect walks all tables of one switch and assembles its state. The
// interface tables are mandatory and their failure is reported as a
// CollectError; the forwarding database and VLAN table degrade to empty
// results on failure.
func (c *Collector) Collect(ctx context.Context, src snmp.TableSource, target Target) (*models.Switch, error) {
	tables, err := c.fetchInterfaceTables(ctx, src)
	if err != nil {
		return nil, &CollectError{Switch: target.Name, Err: err}
	}

	trunk := make(map[string]struct{}, len(target.TrunkPorts))
	for _, name := range target.TrunkPorts {
		trunk[name] = struct{}{}
	}

	ports, byIfIndex := buildPorts(tables, trunk)

	for ifIndex, macs := range c.collectMACs(ctx, src) {
		if i, ok := byIfIndex[ifIndex]; ok {
			ports[i].MACs = macs
		}
	}

	sw := &models.Switch{
		Name:         target.Name,
		ManagementIP: target.ManagementIP,
		Vendor:       target.Vendor,
		Ports:        ports,
		VLANs:        c.collectVLANs(ctx, src),
	}

	c.logger.Info("switch state collected",
		zap.String("switch", target.Name),
		zap.Int("ports", len(sw.Ports)),
		zap.Int("vlans", len(sw.VLANs)),
	)

	return sw, nil
}

// collectVLANs builds one VLAN record per row of the VLAN name table. The
// membership list is not derivable from this table and stays empty. A failed
// fetch degrades to no VLANs for the switch.
func (c *Collector) collectVLANs(ctx context.Context, src snmp.TableSource) []models.VLAN {
	rows, err := src.FetchTable(ctx, snmp.OIDDot1qVlanName)
	if err != nil {
		c.logger.Debug("VLAN name table unavailable", zap.Error(err))
		return nil
	}

	vlans := make([]models.VLAN, 0, len(rows))
	for oid, name := range rows {
		vlans = append(vlans, models.VLAN{
			ID:    lastComponent(oid),
			Name:  name,
			Ports: []string{},
		})
	}
	sort.Slice(vlans, func(i, j int) bool {
		a, aErr := strconv.Atoi(vlans[i].ID)
		b, bErr := strconv.Atoi(vlans[j].ID)
		if aErr == nil && bErr == nil {
			return a < b
		}
		return vlans[i].ID < vlans[j].ID
	})
	return vlans
}
