package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "switchmap.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_FullSite(t *testing.T) {
	path := writeConfig(t, `
destination_directory: /var/www/switchmap
idlesince_directory: /var/lib/switchmap/idlesince
maclist_path: /var/lib/switchmap/maclist.db
unused_after_days: 14
snmp_timeout: 5s
snmp_retries: 2
scan_concurrency: 4
server:
  host: 0.0.0.0
  port: 9000
switches:
  - name: core1
    management_ip: 192.0.2.1
    vendor: cisco
    snmp_version: 2c
    community: public
    trunk_ports: [Gi0/47, Gi0/48]
  - name: edge1
    management_ip: 192.0.2.2
routers:
  - name: gw1
    management_ip: 192.0.2.254
    community: public
`)

	site, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if site.DestinationDirectory != "/var/www/switchmap" {
		t.Errorf("destination_directory = %q", site.DestinationDirectory)
	}
	if site.UnusedAfterDays != 14 {
		t.Errorf("unused_after_days = %d, want 14", site.UnusedAfterDays)
	}
	if site.SNMPTimeout != 5*time.Second {
		t.Errorf("snmp_timeout = %v, want 5s", site.SNMPTimeout)
	}
	if site.SNMPRetries != 2 {
		t.Errorf("snmp_retries = %d, want 2", site.SNMPRetries)
	}
	if site.ScanConcurrency != 4 {
		t.Errorf("scan_concurrency = %d, want 4", site.ScanConcurrency)
	}
	if got := site.Server.Addr(); got != "0.0.0.0:9000" {
		t.Errorf("server addr = %q, want 0.0.0.0:9000", got)
	}
	if len(site.Switches) != 2 {
		t.Fatalf("got %d switches, want 2", len(site.Switches))
	}
	core := site.Switches[0]
	if core.Name != "core1" || core.ManagementIP != "192.0.2.1" ||
		core.Vendor != "cisco" || core.Version != "2c" || core.Community != "public" {
		t.Errorf("core1 parsed as %+v", core)
	}
	if len(core.TrunkPorts) != 2 || core.TrunkPorts[0] != "Gi0/47" {
		t.Errorf("core1 trunk_ports = %v", core.TrunkPorts)
	}
	if len(site.Routers) != 1 || site.Routers[0].Name != "gw1" {
		t.Errorf("routers = %+v", site.Routers)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
switches:
  - name: sw1
    management_ip: 192.0.2.1
`)

	site, v, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if site.DestinationDirectory != "output" {
		t.Errorf("destination_directory default = %q", site.DestinationDirectory)
	}
	if site.IdleSinceDirectory != "idlesince" {
		t.Errorf("idlesince_directory default = %q", site.IdleSinceDirectory)
	}
	if site.MaclistPath != "maclist.db" {
		t.Errorf("maclist_path default = %q", site.MaclistPath)
	}
	if site.UnusedAfterDays != 30 {
		t.Errorf("unused_after_days default = %d", site.UnusedAfterDays)
	}
	if site.SNMPTimeout != 2*time.Second {
		t.Errorf("snmp_timeout default = %v", site.SNMPTimeout)
	}
	if site.ScanConcurrency != 8 {
		t.Errorf("scan_concurrency default = %d", site.ScanConcurrency)
	}
	if got := site.Server.Addr(); got != "127.0.0.1:8000" {
		t.Errorf("server addr default = %q", got)
	}
	if v.GetString("logging.level") != "info" || v.GetString("logging.format") != "json" {
		t.Errorf("logging defaults = %q/%q",
			v.GetString("logging.level"), v.GetString("logging.format"))
	}
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for explicit missing config file")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unnamed switch",
			yaml: `
switches:
  - management_ip: 192.0.2.1
`,
			want: "no name",
		},
		{
			name: "switch without management ip",
			yaml: `
switches:
  - name: sw1
`,
			want: "no management IP",
		},
		{
			name: "duplicate switch name",
			yaml: `
switches:
  - name: sw1
    management_ip: 192.0.2.1
  - name: sw1
    management_ip: 192.0.2.2
`,
			want: "duplicate",
		},
		{
			name: "zero concurrency",
			yaml: `
scan_concurrency: 0
switches:
  - name: sw1
    management_ip: 192.0.2.1
`,
			want: "scan_concurrency",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Load(writeConfig(t, tt.yaml))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestSwitchByName(t *testing.T) {
	site := &Site{Switches: []SwitchConfig{
		{Name: "sw1", ManagementIP: "192.0.2.1"},
		{Name: "sw2", ManagementIP: "192.0.2.2"},
	}}
	if got := site.SwitchByName("sw2"); got == nil || got.ManagementIP != "192.0.2.2" {
		t.Fatalf("SwitchByName(sw2) = %+v", got)
	}
	if got := site.SwitchByName("sw3"); got != nil {
		t.Fatalf("SwitchByName(sw3) = %+v, want nil", got)
	}
}
