package models

import "time"

// PortIdleState records a port's activity history across scans. After any
// tracker update exactly one of IdleSince/LastActive is set: an active port
// has LastActive, an idle port keeps the IdleSince from the scan where it
// first went quiet. Both are nil only for a port never yet observed.
type PortIdleState struct {
	Port       string     `json:"-"`
	IdleSince  *time.Time `json:"idle_since"`
	LastActive *time.Time `json:"last_active"`
}
