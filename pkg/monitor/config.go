// Package monitor implements the Boolean Monitor (spec §4.4): a scheduled,
// keyword-driven search over a configured set of sources, deduplicated
// against persisted state, scored for relevance, and delivered to alert
// channels.
package monitor

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/codeready-toolchain/research-core/pkg/store"
)

// Config is one monitor's user-edited YAML definition (spec §6, "Monitor
// configuration files"). Never mixed with State — they live in sibling
// files so a user editing keywords never risks clobbering seen_fingerprints.
type Config struct {
	Name                string        `yaml:"name"`
	Keywords            []string      `yaml:"keywords"`
	Sources             []string      `yaml:"sources"`
	Schedule            string        `yaml:"schedule"` // daily | hourly | manual | cron:<expr>
	AlertChannels       AlertChannels `yaml:"alert_channels"`
	RelevanceThreshold  int           `yaml:"relevance_threshold"`
	Enabled             bool          `yaml:"enabled"`
}

// AlertChannels names the delivery targets a monitor's alert is sent to.
type AlertChannels struct {
	Email   []string `yaml:"email,omitempty"`
	Webhook string   `yaml:"webhook,omitempty"`
}

// State is the sibling-file persisted state for a monitor: what it has
// already seen and when it last ran (spec §6).
type State struct {
	LastRunAt        time.Time       `json:"last_run_at"`
	SeenFingerprints map[string]bool `json:"seen_fingerprints"`
}

// LoadConfig reads and parses a monitor's YAML config from path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("monitor: reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("monitor: parsing config %s: %w", path, err)
	}
	if cfg.RelevanceThreshold == 0 {
		cfg.RelevanceThreshold = 5
	}
	return &cfg, nil
}

// LoadState reads a monitor's state file, returning a fresh zero-value
// State (never nil SeenFingerprints) if the file does not yet exist — a
// monitor's first run has nothing to compare against.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &State{SeenFingerprints: make(map[string]bool)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("monitor: reading state %s: %w", path, err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("monitor: parsing state %s: %w", path, err)
	}
	if st.SeenFingerprints == nil {
		st.SeenFingerprints = make(map[string]bool)
	}
	return &st, nil
}

// SaveState atomically writes st to path via store.AtomicWriteFile (spec
// §5, "write-temp-then-rename... only one monitor execution holds the
// write lock at a time").
func SaveState(path string, st *State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("monitor: marshaling state: %w", err)
	}
	return store.AtomicWriteFile(path, data, 0o640)
}
