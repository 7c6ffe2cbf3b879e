package snmp

import (
	"context"
	"testing"
	"time"

	"github.com/gosnmp/gosnmp"
	"go.uber.org/zap"
)

func TestNewGoSNMP_V2cDefaults(t *testing.T) {
	s := NewSession(Config{
		Target:    "192.0.2.1",
		Version:   "2c",
		Community: "public",
	}, zap.NewNop())

	g, err := s.newGoSNMP(context.Background())
	if err != nil {
		t.Fatalf("newGoSNMP: %v", err)
	}
	if g.Target != "192.0.2.1" {
		t.Errorf("target = %q", g.Target)
	}
	if g.Port != 161 {
		t.Errorf("port = %d, want 161", g.Port)
	}
	if g.Version != gosnmp.Version2c {
		t.Errorf("version = %v, want 2c", g.Version)
	}
	if g.Community != "public" {
		t.Errorf("community = %q", g.Community)
	}
	if g.Timeout != 2*time.Second {
		t.Errorf("timeout = %v, want the 2s default", g.Timeout)
	}
}

func TestNewGoSNMP_ExplicitPortAndTimeout(t *testing.T) {
	s := NewSession(Config{
		Target:    "192.0.2.1:1161",
		Version:   "2c",
		Community: "public",
		Timeout:   5 * time.Second,
		Retries:   3,
	}, zap.NewNop())

	g, err := s.newGoSNMP(context.Background())
	if err != nil {
		t.Fatalf("newGoSNMP: %v", err)
	}
	if g.Target != "192.0.2.1" || g.Port != 1161 {
		t.Errorf("target/port = %q/%d, want 192.0.2.1/1161", g.Target, g.Port)
	}
	if g.Timeout != 5*time.Second || g.Retries != 3 {
		t.Errorf("timeout/retries = %v/%d", g.Timeout, g.Retries)
	}
}

func TestNewGoSNMP_EmptyVersionDefaultsTo2c(t *testing.T) {
	s := NewSession(Config{Target: "192.0.2.1", Community: "public"}, zap.NewNop())

	g, err := s.newGoSNMP(context.Background())
	if err != nil {
		t.Fatalf("newGoSNMP: %v", err)
	}
	if g.Version != gosnmp.Version2c {
		t.Errorf("version = %v, want 2c", g.Version)
	}
}

func TestNewGoSNMP_MissingCommunityFails(t *testing.T) {
	s := NewSession(Config{Target: "192.0.2.1", Version: "2c"}, zap.NewNop())
	if _, err := s.newGoSNMP(context.Background()); err == nil {
		t.Fatal("expected error for missing community")
	}
}

func TestNewGoSNMP_UnsupportedVersionFails(t *testing.T) {
	s := NewSession(Config{Target: "192.0.2.1", Version: "1"}, zap.NewNop())
	if _, err := s.newGoSNMP(context.Background()); err == nil {
		t.Fatal("expected error for unsupported version")
	}
}

func TestNewGoSNMP_InvalidPortFails(t *testing.T) {
	s := NewSession(Config{
		Target:    "192.0.2.1:notaport",
		Version:   "2c",
		Community: "public",
	}, zap.NewNop())
	if _, err := s.newGoSNMP(context.Background()); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestNewGoSNMP_V3AuthPriv(t *testing.T) {
	s := NewSession(Config{
		Target:            "192.0.2.1",
		Version:           "3",
		Username:          "monitor",
		AuthProtocol:      "SHA-256",
		AuthPassphrase:    "authpass",
		PrivacyProtocol:   "AES-256",
		PrivacyPassphrase: "privpass",
		SecurityLevel:     "authPriv",
	}, zap.NewNop())

	g, err := s.newGoSNMP(context.Background())
	if err != nil {
		t.Fatalf("newGoSNMP: %v", err)
	}
	if g.Version != gosnmp.Version3 {
		t.Errorf("version = %v, want 3", g.Version)
	}
	if g.MsgFlags != gosnmp.AuthPriv {
		t.Errorf("msg flags = %v, want AuthPriv", g.MsgFlags)
	}
	usm, ok := g.SecurityParameters.(*gosnmp.UsmSecurityParameters)
	if !ok {
		t.Fatalf("security parameters are %T", g.SecurityParameters)
	}
	if usm.UserName != "monitor" {
		t.Errorf("username = %q", usm.UserName)
	}
	if usm.AuthenticationProtocol != gosnmp.SHA256 {
		t.Errorf("auth protocol = %v, want SHA256", usm.AuthenticationProtocol)
	}
	if usm.PrivacyProtocol != gosnmp.AES256 {
		t.Errorf("priv protocol = %v, want AES256", usm.PrivacyProtocol)
	}
}

func TestNewGoSNMP_V3NoAuthNoPriv(t *testing.T) {
	s := NewSession(Config{
		Target:        "192.0.2.1",
		Version:       "3",
		Username:      "monitor",
		SecurityLevel: "noAuthNoPriv",
	}, zap.NewNop())

	g, err := s.newGoSNMP(context.Background())
	if err != nil {
		t.Fatalf("newGoSNMP: %v", err)
	}
	if g.MsgFlags != gosnmp.NoAuthNoPriv {
		t.Errorf("msg flags = %v, want NoAuthNoPriv", g.MsgFlags)
	}
}

func TestMapAuthProtocol(t *testing.T) {
	tests := []struct {
		in   string
		want gosnmp.SnmpV3AuthProtocol
	}{
		{"MD5", gosnmp.MD5},
		{"md5", gosnmp.MD5},
		{"SHA", gosnmp.SHA},
		{"SHA-224", gosnmp.SHA224},
		{"sha256", gosnmp.SHA256},
		{"SHA-384", gosnmp.SHA384},
		{"SHA512", gosnmp.SHA512},
		{"", gosnmp.SHA},
		{"bogus", gosnmp.SHA},
	}
	for _, tt := range tests {
		if got := mapAuthProtocol(tt.in); got != tt.want {
			t.Errorf("mapAuthProtocol(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMapPrivProtocol(t *testing.T) {
	tests := []struct {
		in   string
		want gosnmp.SnmpV3PrivProtocol
	}{
		{"DES", gosnmp.DES},
		{"AES", gosnmp.AES},
		{"aes-128", gosnmp.AES},
		{"AES192", gosnmp.AES192},
		{"AES-256", gosnmp.AES256},
		{"", gosnmp.AES},
	}
	for _, tt := range tests {
		if got := mapPrivProtocol(tt.in); got != tt.want {
			t.Errorf("mapPrivProtocol(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPDUValueString(t *testing.T) {
	tests := []struct {
		name string
		pdu  gosnmp.SnmpPDU
		want string
	}{
		{"octet string", gosnmp.SnmpPDU{Value: []byte("GigabitEthernet0/1")}, "GigabitEthernet0/1"},
		{"string", gosnmp.SnmpPDU{Value: "up"}, "up"},
		{"int", gosnmp.SnmpPDU{Value: 2}, "2"},
		{"int64", gosnmp.SnmpPDU{Value: int64(-3)}, "-3"},
		{"uint", gosnmp.SnmpPDU{Value: uint(48)}, "48"},
		{"uint32 gauge", gosnmp.SnmpPDU{Value: uint32(1000)}, "1000"},
		{"uint64 counter", gosnmp.SnmpPDU{Value: uint64(10000000000)}, "10000000000"},
		{"nil", gosnmp.SnmpPDU{Value: nil}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pduValueString(tt.pdu); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
