// Package snmp provides the SNMP transport for the topology collector: it
// walks one OID-indexed table at a time and returns the rows as strings,
// leaving all joining and interpretation to the collector package.
package snmp

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"
	"go.uber.org/zap"
)

// TableSource fetches every row under an OID prefix. Implementations map
// each full OID (without a leading dot) to its value rendered as a string.
// A failed fetch returns a non-nil error; callers decide whether the table
// is mandatory or whether to degrade to an empty result.
type TableSource interface {
	FetchTable(ctx context.Context, oidPrefix string) (map[string]string, error)
}

// Config holds the per-device SNMP session parameters.
type Config struct {
	Target    string // host or host:port; port defaults to 161
	Version   string // "2c" or "3"
	Community string // v2c community

	// SNMPv3 (USM) parameters.
	Username          string
	AuthProtocol      string // "MD5", "SHA", "SHA-256", ...
	AuthPassphrase    string
	PrivacyProtocol   string // "DES", "AES", "AES-256", ...
	PrivacyPassphrase string
	SecurityLevel     string // "noAuthNoPriv", "authNoPriv", "authPriv"

	Timeout time.Duration
	Retries int
}

// Compile-time interface guard.
var _ TableSource = (*Session)(nil)

// Session is a gosnmp-backed TableSource. Each FetchTable call opens its own
// connection; sessions hold no state between calls.
type Session struct {
	cfg    Config
	logger *zap.Logger
}

// NewSession creates a Session for the given device config.
func NewSession(cfg Config, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{cfg: cfg, logger: logger}
}

// newGoSNMP builds a configured GoSNMP instance. The returned instance is
// not yet connected; the caller must call Connect().
func (s *Session) newGoSNMP(ctx context.Context) (*gosnmp.GoSNMP, error) {
	host, portStr, err := net.SplitHostPort(s.cfg.Target)
	if err != nil {
		// No port specified, default to 161.
		host = s.cfg.Target
		portStr = "161"
	}

	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid port %q: %w", portStr, err)
	}

	timeout := s.cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	g := &gosnmp.GoSNMP{
		Target:  host,
		Port:    uint16(port),
		Timeout: timeout,
		Retries: s.cfg.Retries,
		Context: ctx,
	}

	switch s.cfg.Version {
	case "2c", "":
		if s.cfg.Community == "" {
			return nil, fmt.Errorf("SNMP community not configured for %s", host)
		}
		g.Version = gosnmp.Version2c
		g.Community = s.cfg.Community

	case "3":
		g.Version = gosnmp.Version3
		g.SecurityModel = gosnmp.UserSecurityModel

		switch s.cfg.SecurityLevel {
		case "noAuthNoPriv":
			g.MsgFlags = gosnmp.NoAuthNoPriv
		case "authNoPriv":
			g.MsgFlags = gosnmp.AuthNoPriv
		default:
			g.MsgFlags = gosnmp.AuthPriv
		}

		g.SecurityParameters = &gosnmp.UsmSecurityParameters{
			UserName:                 s.cfg.Username,
			AuthenticationProtocol:   mapAuthProtocol(s.cfg.AuthProtocol),
			AuthenticationPassphrase: s.cfg.AuthPassphrase,
			PrivacyProtocol:          mapPrivProtocol(s.cfg.PrivacyProtocol),
			PrivacyPassphrase:        s.cfg.PrivacyPassphrase,
		}

	default:
		return nil, fmt.Errorf("unsupported SNMP version %q", s.cfg.Version)
	}

	return g, nil
}

// FetchTable walks all rows under oidPrefix and returns them keyed by full
// OID without the leading dot.
func (s *Session) FetchTable(ctx context.Context, oidPrefix string) (map[string]string, error) {
	g, err := s.newGoSNMP(ctx)
	if err != nil {
		return nil, fmt.Errorf("configure SNMP: %w", err)
	}

	if err := g.Connect(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", s.cfg.Target, err)
	}
	defer func() { _ = g.Conn.Close() }()

	pdus, err := g.BulkWalkAll(oidPrefix)
	if err != nil {
		return nil, fmt.Errorf("SNMP walk %s on %s: %w", oidPrefix, s.cfg.Target, err)
	}

	rows := make(map[string]string, len(pdus))
	for _, pdu := range pdus {
		rows[strings.TrimPrefix(pdu.Name, ".")] = pduValueString(pdu)
	}

	s.logger.Debug("SNMP table fetched",
		zap.String("target", s.cfg.Target),
		zap.String("oid", oidPrefix),
		zap.Int("rows", len(rows)),
	)

	return rows, nil
}

// mapAuthProtocol converts an auth protocol string to the gosnmp constant.
func mapAuthProtocol(s string) gosnmp.SnmpV3AuthProtocol {
	switch strings.ToUpper(s) {
	case "MD5":
		return gosnmp.MD5
	case "SHA":
		return gosnmp.SHA
	case "SHA-224", "SHA224":
		return gosnmp.SHA224
	case "SHA-256", "SHA256":
		return gosnmp.SHA256
	case "SHA-384", "SHA384":
		return gosnmp.SHA384
	case "SHA-512", "SHA512":
		return gosnmp.SHA512
	default:
		return gosnmp.SHA
	}
}

// mapPrivProtocol converts a privacy protocol string to the gosnmp constant.
func mapPrivProtocol(s string) gosnmp.SnmpV3PrivProtocol {
	switch strings.ToUpper(s) {
	case "DES":
		return gosnmp.DES
	case "AES", "AES-128", "AES128":
		return gosnmp.AES
	case "AES-192", "AES192":
		return gosnmp.AES192
	case "AES-256", "AES256":
		return gosnmp.AES256
	default:
		return gosnmp.AES
	}
}

// pduValueString renders an SNMP PDU value as a string. Integer types come
// out in decimal, which is the form the collector's table joins expect for
// status codes, bridge-port numbers, and interface indexes.
func pduValueString(pdu gosnmp.SnmpPDU) string {
	switch v := pdu.Value.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	default:
		if v == nil {
			return ""
		}
		return fmt.Sprintf("%v", v)
	}
}
