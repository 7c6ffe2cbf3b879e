package importer

import (
	"strings"
	"testing"
)

func TestParseARPCSV_ValidRows(t *testing.T) {
	input := strings.Join([]string{
		"# router export 2025-06-01",
		"00:1c:73:00:00:01,10.0.0.1,web01",
		"00-1c-73-00-00-02,10.0.0.2",
		"",
		"00:1c:73:00:00:03,2001:db8::3,ipv6-host",
	}, "\n")

	entries, err := ParseARPCSV(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("ParseARPCSV: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].MAC != "00:1c:73:00:00:01" || entries[0].IP != "10.0.0.1" || entries[0].Hostname != "web01" {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[1].Hostname != "" {
		t.Errorf("entry 1 hostname = %q, want empty (optional column)", entries[1].Hostname)
	}
	if entries[2].IP != "2001:db8::3" {
		t.Errorf("entry 2 IP = %q, want the IPv6 address", entries[2].IP)
	}
}

func TestParseARPCSV_SkipsInvalidRows(t *testing.T) {
	input := strings.Join([]string{
		"not-a-mac,10.0.0.1",
		"00:1c:73:00:00:01,not-an-ip",
		"00:1c:73:00:00:01",
		",10.0.0.1",
		"00:1c:73:00:00:99,10.0.0.99,ok",
	}, "\n")

	entries, err := ParseARPCSV(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("ParseARPCSV: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want only the valid row", len(entries))
	}
	if entries[0].MAC != "00:1c:73:00:00:99" {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestParseARPCSV_TrimsWhitespace(t *testing.T) {
	entries, err := ParseARPCSV(strings.NewReader(" 00:1c:73:00:00:01 , 10.0.0.1 , host "), nil)
	if err != nil {
		t.Fatalf("ParseARPCSV: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].IP != "10.0.0.1" || entries[0].Hostname != "host" {
		t.Errorf("entry = %+v, fields not trimmed", entries[0])
	}
}

func TestIsValidMAC(t *testing.T) {
	tests := []struct {
		mac  string
		want bool
	}{
		{"00:1c:73:ab:cd:ef", true},
		{"00-1C-73-AB-CD-EF", true},
		{"00:1c:73:ab:cd", false},
		{"00:1c:73:ab:cd:zz", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidMAC(tt.mac); got != tt.want {
			t.Errorf("IsValidMAC(%q) = %v, want %v", tt.mac, got, tt.want)
		}
	}
}
