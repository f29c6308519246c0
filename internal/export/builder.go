// internal/export/builder.go
package export

import (
	"time"

	cfg "github.com/tamzrod/cxlctl/internal/config"
	emodbus "github.com/tamzrod/cxlctl/internal/export/modbus"
)

// Build creates the shared endpoint client and one Writer per device
// that opted in (status_slot set), keyed by device address. When export
// is not configured, returns an empty map and a no-op closer.
func Build(c *cfg.Config) (map[string]*Writer, func() error, error) {
	e := c.CXL.Export
	if e == nil {
		return map[string]*Writer{}, func() error { return nil }, nil
	}

	cli, err := emodbus.New(emodbus.Config{
		Endpoint: e.Endpoint,
		UnitID:   e.UnitID,
		Timeout:  time.Duration(e.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	writers := make(map[string]*Writer)
	for _, d := range c.CXL.Devices {
		if d.StatusSlot == nil {
			continue
		}
		w, err := NewWriter(*d.StatusSlot, d.Name, cli)
		if err != nil {
			_ = cli.Close()
			return nil, nil, err
		}
		writers[d.Address] = w
	}

	return writers, cli.Close, nil
}
