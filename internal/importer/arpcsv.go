// Package importer loads ARP data from CSV exports into the flat address
// list. Rows are (mac, ip[, hostname]); '#' comment lines and blank lines
// are skipped, and invalid rows are dropped with a warning rather than
// failing the import.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"net"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/icecake0141/switchmap/pkg/models"
)

// macPattern matches XX:XX:XX:XX:XX:XX and XX-XX-XX-XX-XX-XX forms. Each
// separator may differ, matching the loose formats seen in router exports.
var macPattern = regexp.MustCompile(`^(?:[0-9A-Fa-f]{2}[:-]){5}[0-9A-Fa-f]{2}$`)

// IsValidMAC reports whether address is an acceptable MAC address form.
func IsValidMAC(address string) bool {
	return macPattern.MatchString(address)
}

// IsValidIP reports whether address is a valid IPv4 or IPv6 address.
func IsValidIP(address string) bool {
	return net.ParseIP(address) != nil
}

// ParseARPCSV reads ARP entries from r. Invalid rows are skipped with a
// warning carrying the row number.
func ParseARPCSV(r io.Reader, logger *zap.Logger) ([]models.MacEntry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows may carry an optional hostname column

	var entries []models.MacEntry
	for rowNumber := 1; ; rowNumber++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row %d: %w", rowNumber, err)
		}

		if len(row) == 0 || strings.HasPrefix(strings.TrimSpace(row[0]), "#") {
			continue
		}

		trimmed := make([]string, len(row))
		for i, part := range row {
			trimmed[i] = strings.TrimSpace(part)
		}
		if len(trimmed) == 1 && trimmed[0] == "" {
			continue
		}

		if len(trimmed) < 2 || trimmed[0] == "" || trimmed[1] == "" {
			logger.Warn("skipping CSV row: missing MAC/IP columns",
				zap.Int("row", rowNumber),
			)
			continue
		}

		mac, ip := trimmed[0], trimmed[1]
		if !IsValidMAC(mac) {
			logger.Warn("skipping CSV row: invalid MAC address",
				zap.Int("row", rowNumber),
				zap.String("mac", mac),
			)
			continue
		}
		if !IsValidIP(ip) {
			logger.Warn("skipping CSV row: invalid IP address",
				zap.Int("row", rowNumber),
				zap.String("ip", ip),
			)
			continue
		}

		entry := models.MacEntry{MAC: mac, IP: ip}
		if len(trimmed) > 2 {
			entry.Hostname = trimmed[2]
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// LoadARPCSV reads ARP entries from the file at path.
func LoadARPCSV(path string, logger *zap.Logger) ([]models.MacEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ARP CSV %q: %w", path, err)
	}
	defer f.Close()
	return ParseARPCSV(f, logger)
}
