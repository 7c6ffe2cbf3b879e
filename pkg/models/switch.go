package models

import (
	"strings"
	"time"
)

// Port represents one physical switch port observed during a scan.
// The MAC set and status fields are scan-local; IdleSince/LastActive are
// carried forward from the previous persisted activity record.
type Port struct {
	Name        string     `json:"name"`
	Descr       string     `json:"descr"`
	AdminStatus string     `json:"admin_status"`
	OperStatus  string     `json:"oper_status"`
	Speed       *uint64    `json:"speed,omitempty"`
	VLAN        string     `json:"vlan,omitempty"`
	MACs        []string   `json:"macs"`
	IdleSince   *time.Time `json:"idle_since,omitempty"`
	LastActive  *time.Time `json:"last_active,omitempty"`
	IsTrunk     bool       `json:"is_trunk"`
}

// IsActive reports whether the port is considered in use: operationally up
// with at least one learned MAC address. This derived flag drives the
// idle/active classification, not stored state.
func (p *Port) IsActive() bool {
	return strings.EqualFold(p.OperStatus, "up") && len(p.MACs) > 0
}

// VLAN represents one VLAN known to a switch. Ports is never populated by
// the collector; membership is not derivable from the tables it walks.
type VLAN struct {
	ID    string   `json:"vlan_id"`
	Name  string   `json:"name"`
	Ports []string `json:"ports"`
}

// Switch is one switch's state as assembled from a single scan. It is
// rebuilt from scratch every scan and never mutated after assembly.
type Switch struct {
	Name         string `json:"name"`
	ManagementIP string `json:"management_ip"`
	Vendor       string `json:"vendor"`
	Ports        []Port `json:"ports"`
	VLANs        []VLAN `json:"vlans"`
}

// PortByName returns the switch's ports keyed by port name.
func (s *Switch) PortByName() map[string]*Port {
	m := make(map[string]*Port, len(s.Ports))
	for i := range s.Ports {
		m[s.Ports[i].Name] = &s.Ports[i]
	}
	return m
}
