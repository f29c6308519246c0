// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/tamzrod/cxlctl/internal/pci"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if len(cfg.CXL.Devices) == 0 {
		return fmt.Errorf("config: at least one device required")
	}

	// ------------------------------------------------------------
	// DEVICE VALIDATION
	// ------------------------------------------------------------

	seen := make(map[string]struct{})

	for _, d := range cfg.CXL.Devices {
		addr, err := pci.ParseAddr(d.Address)
		if err != nil {
			return fmt.Errorf("device %q: %w", d.Address, err)
		}

		key := addr.String()
		if _, dup := seen[key]; dup {
			return fmt.Errorf("device %s listed twice", key)
		}
		seen[key] = struct{}{}

		// name sanity (ASCII only)
		for i := 0; i < len(d.Name); i++ {
			if d.Name[i] > 0x7F {
				return fmt.Errorf(
					"device %s: name must contain ASCII characters only",
					key,
				)
			}
		}

		for _, f := range d.Enable {
			switch f {
			case "mem", "cache":
			default:
				return fmt.Errorf(
					"device %s: unknown feature %q (want mem or cache)",
					key, f,
				)
			}
		}
	}

	// ------------------------------------------------------------
	// STATUS EXPORT VALIDATION (OPT-IN)
	// ------------------------------------------------------------

	// Each device owns a fixed 20-register block (keep in sync with
	// export.SlotsPerDevice). Slots past maxStatusSlot would wrap the
	// 16-bit register address space and alias another device's block.
	const slotsPerDevice = 20
	const maxStatusSlot = (0xFFFF - (slotsPerDevice - 1)) / slotsPerDevice

	// slot -> device address
	slotOwner := make(map[uint16]string)

	for _, d := range cfg.CXL.Devices {
		if d.StatusSlot == nil {
			continue
		}

		if cfg.CXL.Export == nil {
			return fmt.Errorf(
				"device %s: status_slot is set but no export section is defined",
				d.Address,
			)
		}

		slot := *d.StatusSlot
		if slot > maxStatusSlot {
			return fmt.Errorf(
				"device %s: status_slot %d out of range (max %d)",
				d.Address, slot, maxStatusSlot,
			)
		}
		if prev, exists := slotOwner[slot]; exists {
			return fmt.Errorf(
				"status_slot collision: slot=%d used by devices %s and %s",
				slot, prev, d.Address,
			)
		}
		slotOwner[slot] = d.Address
	}

	// ------------------------------------------------------------
	// EXPORT ENDPOINT VALIDATION
	// ------------------------------------------------------------

	if e := cfg.CXL.Export; e != nil {
		if e.Endpoint == "" {
			return fmt.Errorf("export: endpoint required")
		}
		if e.IntervalMs < 0 {
			return fmt.Errorf("export: interval_ms must be >= 0")
		}
		if e.TimeoutMs < 0 {
			return fmt.Errorf("export: timeout_ms must be >= 0")
		}
	}

	return nil
}
