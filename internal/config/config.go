// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	CXL CXLConfig `yaml:"cxl"`
}

type CXLConfig struct {
	Platform PlatformConfig `yaml:"platform"`
	Devices  []DeviceConfig `yaml:"devices"`
	Export   *ExportConfig  `yaml:"export"`
}

// ---- PLATFORM SWITCHES ----

// PlatformConfig mirrors the OS/platform CXL support knobs.
// Pass-through only: nothing here is derived.
type PlatformConfig struct {
	PortRegEnable          bool `yaml:"port_reg_enable"`
	PortDevRegEnable       bool `yaml:"port_dev_reg_enable"`
	ProtocolErrorReporting bool `yaml:"protocol_error_reporting"`
	NativeHotplug          bool `yaml:"native_hotplug"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	Address string   `yaml:"address"` // dddd:bb:ss.f
	Name    string   `yaml:"name"`
	Enable  []string `yaml:"enable"` // "mem", "cache"

	// Status export slot (optional, opt-in; requires export section)
	StatusSlot *uint16 `yaml:"status_slot"`
}

// ---- EXPORT ----

type ExportConfig struct {
	Endpoint   string `yaml:"endpoint"`
	UnitID     uint8  `yaml:"unit_id"`
	TimeoutMs  int    `yaml:"timeout_ms"`
	IntervalMs int    `yaml:"interval_ms"`
}

// Load reads and decodes the YAML config file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
