// Package activity tracks per-port idle/active history across scans and
// persists it as one JSON record set per switch.
package activity

import (
	"time"

	"github.com/icecake0141/switchmap/pkg/models"
)

// Update computes the next activity record for a port from its previous
// record and the freshly observed activity flag. It is a two-state machine:
//
//   - an active observation always clears idleness and refreshes LastActive;
//   - an inactive observation starts the idle clock only if it is not
//     already running — IdleSince is sticky across scans and repeated
//     inactive observations preserve the original transition timestamp.
//
// The returned record always carries exactly one of IdleSince/LastActive.
func Update(prev *models.PortIdleState, port string, isActive bool, observedAt time.Time) models.PortIdleState {
	if isActive {
		t := observedAt
		return models.PortIdleState{Port: port, LastActive: &t}
	}
	if prev != nil && prev.IdleSince != nil {
		return models.PortIdleState{
			Port:       port,
			IdleSince:  prev.IdleSince,
			LastActive: prev.LastActive,
		}
	}
	t := observedAt
	return models.PortIdleState{Port: port, IdleSince: &t}
}
