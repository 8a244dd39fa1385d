package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// --- Printer Configuration ---

const (
	PrinterTypeLocal   = "local"
	PrinterTypeNetwork = "network"

	DefaultNetworkPort = 9100
	DefaultPaperWidth  = 80
)

type PrinterConfig struct {
	Type        string `json:"type"`
	PrinterName string `json:"printerName,omitempty"`
	NetworkIP   string `json:"networkIp,omitempty"`
	NetworkPort int    `json:"networkPort"`
	PaperWidth  int    `json:"paperWidth"`
}

// ConfigUpdate is a partial PrinterConfig; only present fields are applied.
type ConfigUpdate struct {
	Type        *string `json:"type,omitempty"`
	PrinterName *string `json:"printerName,omitempty"`
	NetworkIP   *string `json:"networkIp,omitempty"`
	NetworkPort *int    `json:"networkPort,omitempty"`
	PaperWidth  *int    `json:"paperWidth,omitempty"`
}

func DefaultPrinterConfig() PrinterConfig {
	return PrinterConfig{
		Type:        PrinterTypeLocal,
		NetworkPort: DefaultNetworkPort,
		PaperWidth:  DefaultPaperWidth,
	}
}

// Columns maps the paper width in millimeters to printable text columns.
func (c PrinterConfig) Columns() int {
	if c.PaperWidth == 58 {
		return 32
	}
	return 48
}

// ConfigStore owns the process-wide printer configuration. Handlers take a
// snapshot at the start of a print job, so a concurrent /config change never
// affects an in-flight dispatch.
type ConfigStore struct {
	mu   sync.RWMutex
	cfg  PrinterConfig
	path string
}

// NewConfigStore starts from defaults and, when path is non-empty, reloads
// the last saved configuration from disk.
func NewConfigStore(path string) *ConfigStore {
	s := &ConfigStore{cfg: DefaultPrinterConfig(), path: path}
	if path != "" {
		s.load()
	}
	return s
}

func (s *ConfigStore) Get() PrinterConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Apply merges a partial update, backfills defaults and persists the result.
// Saving is best-effort: a read-only disk must not break printing.
func (s *ConfigStore) Apply(u ConfigUpdate) PrinterConfig {
	s.mu.Lock()
	if u.Type != nil {
		s.cfg.Type = *u.Type
	}
	if u.PrinterName != nil {
		s.cfg.PrinterName = *u.PrinterName
	}
	if u.NetworkIP != nil {
		s.cfg.NetworkIP = *u.NetworkIP
	}
	if u.NetworkPort != nil {
		s.cfg.NetworkPort = *u.NetworkPort
	}
	if u.PaperWidth != nil {
		s.cfg.PaperWidth = *u.PaperWidth
	}
	if s.cfg.NetworkPort == 0 {
		s.cfg.NetworkPort = DefaultNetworkPort
	}
	if s.cfg.PaperWidth != 58 && s.cfg.PaperWidth != 80 {
		s.cfg.PaperWidth = DefaultPaperWidth
	}
	cfg := s.cfg
	s.mu.Unlock()

	if s.path != "" {
		s.save(cfg)
	}
	return cfg
}

func (s *ConfigStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var cfg PrinterConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return
	}
	if cfg.Type != PrinterTypeLocal && cfg.Type != PrinterTypeNetwork {
		return
	}
	if cfg.NetworkPort == 0 {
		cfg.NetworkPort = DefaultNetworkPort
	}
	if cfg.PaperWidth != 58 && cfg.PaperWidth != 80 {
		cfg.PaperWidth = DefaultPaperWidth
	}
	s.cfg = cfg
}

func (s *ConfigStore) save(cfg PrinterConfig) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
