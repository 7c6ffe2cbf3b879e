package activity

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/icecake0141/switchmap/pkg/models"
)

// Store persists port activity records as one JSON file per switch, keyed
// by port name with RFC 3339 timestamps. Saves are deterministic (sorted
// keys) so repeated scans of an unchanged network produce identical files.
type Store struct {
	dir    string
	logger *zap.Logger
}

// NewStore creates the store directory if needed.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create idle state directory %q: %w", dir, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// portStateJSON is the on-disk shape of one port's record.
type portStateJSON struct {
	IdleSince  *string `json:"idle_since"`
	LastActive *string `json:"last_active"`
}

func (s *Store) pathFor(switchName string) string {
	return filepath.Join(s.dir, switchName+".json")
}

// Load reads the record set for one switch. A missing file is an empty set.
// An unreadable or corrupt file, and any malformed per-port entry, recover
// to "both absent" with a logged warning rather than aborting the load.
func (s *Store) Load(switchName string) map[string]models.PortIdleState {
	raw, err := os.ReadFile(s.pathFor(switchName))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error("failed to read idle state file",
				zap.String("switch", switchName),
				zap.Error(err),
			)
		}
		return map[string]models.PortIdleState{}
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		s.logger.Error("corrupt idle state file",
			zap.String("switch", switchName),
			zap.Error(err),
		)
		return map[string]models.PortIdleState{}
	}

	states := make(map[string]models.PortIdleState, len(payload))
	for port, entry := range payload {
		var rec portStateJSON
		if err := json.Unmarshal(entry, &rec); err != nil {
			s.logger.Warn("malformed idle state entry",
				zap.String("switch", switchName),
				zap.String("port", port),
				zap.Error(err),
			)
			states[port] = models.PortIdleState{Port: port}
			continue
		}
		states[port] = models.PortIdleState{
			Port:       port,
			IdleSince:  s.parseTimestamp(rec.IdleSince, "idle_since", port, switchName),
			LastActive: s.parseTimestamp(rec.LastActive, "last_active", port, switchName),
		}
	}
	return states
}

// parseTimestamp decodes an optional RFC 3339 timestamp. Invalid values
// recover to absent.
func (s *Store) parseTimestamp(raw *string, key, port, switchName string) *time.Time {
	if raw == nil || *raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		s.logger.Warn("invalid idle state timestamp",
			zap.String("switch", switchName),
			zap.String("port", port),
			zap.String("key", key),
			zap.String("value", *raw),
		)
		return nil
	}
	t = t.UTC()
	return &t
}

// Save writes the record set for one switch.
func (s *Store) Save(switchName string, states map[string]models.PortIdleState) error {
	payload := make(map[string]portStateJSON, len(states))
	for port, state := range states {
		payload[port] = portStateJSON{
			IdleSince:  formatTimestamp(state.IdleSince),
			LastActive: formatTimestamp(state.LastActive),
		}
	}

	// json.Marshal emits map keys in sorted order, which keeps the files
	// reproducible between runs.
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode idle state for %s: %w", switchName, err)
	}
	if err := os.WriteFile(s.pathFor(switchName), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write idle state for %s: %w", switchName, err)
	}
	return nil
}

func formatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}
