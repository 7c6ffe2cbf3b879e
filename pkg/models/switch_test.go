package models

import "testing"

func TestPortIsActive(t *testing.T) {
	tests := []struct {
		name string
		port Port
		want bool
	}{
		{"up with macs", Port{OperStatus: "up", MACs: []string{"00:1c:73:00:00:01"}}, true},
		{"up case insensitive", Port{OperStatus: "Up", MACs: []string{"00:1c:73:00:00:01"}}, true},
		{"up without macs", Port{OperStatus: "up"}, false},
		{"down with macs", Port{OperStatus: "down", MACs: []string{"00:1c:73:00:00:01"}}, false},
		{"unknown status", Port{OperStatus: "5", MACs: []string{"00:1c:73:00:00:01"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.port.IsActive(); got != tt.want {
				t.Errorf("IsActive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSwitchPortByName(t *testing.T) {
	sw := Switch{
		Name: "core1",
		Ports: []Port{
			{Name: "Gi0/1"},
			{Name: "Gi0/2"},
		},
	}
	byName := sw.PortByName()
	if len(byName) != 2 {
		t.Fatalf("got %d entries, want 2", len(byName))
	}
	p, ok := byName["Gi0/2"]
	if !ok {
		t.Fatal("Gi0/2 missing from map")
	}
	p.VLAN = "10"
	if sw.Ports[1].VLAN != "10" {
		t.Fatal("map entries should point into the ports slice")
	}
}
