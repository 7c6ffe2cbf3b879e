// Package scan orchestrates collection across the configured switches:
// bounded-concurrency SNMP collection, per-switch failure policy, and the
// idle/active bookkeeping that follows each scan.
package scan

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/icecake0141/switchmap/internal/activity"
	"github.com/icecake0141/switchmap/internal/collector"
	"github.com/icecake0141/switchmap/internal/config"
	"github.com/icecake0141/switchmap/internal/snmp"
	"github.com/icecake0141/switchmap/pkg/models"
)

// Result holds the outcome of a batch collection: the switches that were
// assembled and the names of switches whose mandatory tables could not be
// fetched.
type Result struct {
	Switches []models.Switch
	Failed   []string
}

// Runner drives scans over a site's switches.
type Runner struct {
	site      *config.Site
	collector *collector.Collector
	logger    *zap.Logger

	// newSource builds the table source for one switch; replaced in tests.
	newSource func(config.SwitchConfig) snmp.TableSource
}

// NewRunner creates a Runner for the given site.
func NewRunner(site *config.Site, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		site:      site,
		collector: collector.New(logger.Named("collector")),
		logger:    logger,
	}
	r.newSource = r.sessionFor
	return r
}

// sessionFor builds the SNMP table source for one switch.
func (r *Runner) sessionFor(sw config.SwitchConfig) snmp.TableSource {
	return snmp.NewSession(snmp.Config{
		Target:    sw.ManagementIP,
		Version:   sw.Version,
		Community: sw.Community,
		Timeout:   r.site.SNMPTimeout,
		Retries:   r.site.SNMPRetries,
	}, r.logger.Named("snmp"))
}

// Collect scans the configured switches (or just the named one when only is
// non-empty) with bounded concurrency. Switches never share state, so each
// runs on its own worker; the pool is sized by scan_concurrency since the
// SNMP transport is the only blocking operation.
//
// When strict is true any collection failure aborts the run. Otherwise
// per-switch collection failures (and only those) are logged and recorded in
// Result.Failed; programming errors always abort.
func (r *Runner) Collect(ctx context.Context, only string, strict bool) (*Result, error) {
	var targets []config.SwitchConfig
	for _, sw := range r.site.Switches {
		if only != "" && sw.Name != only {
			continue
		}
		targets = append(targets, sw)
	}
	if only != "" && len(targets) == 0 {
		return nil, fmt.Errorf("switch %q is not configured", only)
	}

	runID := uuid.New().String()
	r.logger.Info("scan started",
		zap.String("run_id", runID),
		zap.Int("switches", len(targets)),
	)

	type outcome struct {
		name  string
		state *models.Switch
		err   error
	}

	sem := make(chan struct{}, r.site.ScanConcurrency)
	outcomes := make([]outcome, len(targets))
	var wg sync.WaitGroup
	for i, sw := range targets {
		wg.Add(1)
		go func(i int, sw config.SwitchConfig) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			state, err := r.collector.Collect(ctx, r.newSource(sw), collector.Target{
				Name:         sw.Name,
				ManagementIP: sw.ManagementIP,
				Vendor:       sw.Vendor,
				TrunkPorts:   sw.TrunkPorts,
			})
			outcomes[i] = outcome{name: sw.Name, state: state, err: err}
		}(i, sw)
	}
	wg.Wait()

	result := &Result{}
	for _, o := range outcomes {
		switch {
		case o.err == nil:
			result.Switches = append(result.Switches, *o.state)
		case collector.IsCollectError(o.err) && !strict:
			r.logger.Error("switch collection failed",
				zap.String("run_id", runID),
				zap.String("switch", o.name),
				zap.Error(o.err),
			)
			result.Failed = append(result.Failed, o.name)
		default:
			return nil, o.err
		}
	}
	sort.Strings(result.Failed)

	r.logger.Info("scan finished",
		zap.String("run_id", runID),
		zap.Int("collected", len(result.Switches)),
		zap.Int("failed", len(result.Failed)),
	)

	return result, nil
}

// UpdateActivity folds one collected switch state into its persisted
// activity records. Records for ports absent from this scan are carried
// forward unless prune is set. Ports of one switch never collide, so the
// per-port updates are independent.
func UpdateActivity(store *activity.Store, sw *models.Switch, observedAt time.Time, prune bool) error {
	current := store.Load(sw.Name)

	updated := make(map[string]models.PortIdleState, len(current))
	if !prune {
		for port, state := range current {
			updated[port] = state
		}
	}
	for i := range sw.Ports {
		port := &sw.Ports[i]
		var prev *models.PortIdleState
		if state, ok := current[port.Name]; ok {
			prev = &state
		}
		updated[port.Name] = activity.Update(prev, port.Name, port.IsActive(), observedAt)
	}

	return store.Save(sw.Name, updated)
}

// AttachActivity copies the persisted timestamps onto the collected ports so
// reports can show idle history alongside live state.
func AttachActivity(store *activity.Store, sw *models.Switch) {
	states := store.Load(sw.Name)
	for i := range sw.Ports {
		if state, ok := states[sw.Ports[i].Name]; ok {
			sw.Ports[i].IdleSince = state.IdleSince
			sw.Ports[i].LastActive = state.LastActive
		}
	}
}
