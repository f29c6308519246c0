// cmd/cxlctl/main.go
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/tamzrod/cxlctl/internal/config"
	"github.com/tamzrod/cxlctl/internal/dvsec"
	"github.com/tamzrod/cxlctl/internal/export"
	"github.com/tamzrod/cxlctl/internal/pci"
	"github.com/tamzrod/cxlctl/internal/platform"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: cxlctl <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	config.Normalize(cfg)

	sw := platform.New(
		cfg.CXL.Platform.PortRegEnable,
		cfg.CXL.Platform.PortDevRegEnable,
		cfg.CXL.Platform.ProtocolErrorReporting,
		cfg.CXL.Platform.NativeHotplug,
	)
	log.Printf("platform: port_reg=%v port_dev_reg=%v per=%v native_hp=%v",
		sw.PortRegEnabled(), sw.PortDevRegEnabled(),
		sw.ProtocolErrorReportingEnabled(), sw.NativeHotplugEnabled())

	ctx := context.Background()

	// --------------------
	// Open devices, discover, apply enables
	// --------------------

	devices := make(map[string]*pci.Device)

	for _, dc := range cfg.CXL.Devices {
		addr, err := pci.ParseAddr(dc.Address)
		if err != nil {
			// Validate() already parsed these.
			log.Fatalf("device address %q: %v", dc.Address, err)
		}

		dev, err := pci.OpenSysfs(addr)
		if err != nil {
			log.Fatalf("device open failed (%s): %v", addr, err)
		}
		devices[dc.Address] = dev

		if off := dvsec.DiscoverAndReport(dev, log.Default()); off == 0 {
			log.Printf("%s: no CXL capability", addr)
			continue
		}

		for _, f := range dc.Enable {
			switch f {
			case "mem":
				if err := dvsec.EnableMem(dev); err != nil {
					log.Printf("enable mem failed (%s): %v", addr, err)
				}
			case "cache":
				if err := dvsec.EnableCache(dev); err != nil {
					log.Printf("enable cache failed (%s): %v", addr, err)
				}
			}
		}
	}

	// --------------------
	// Status export (optional)
	// --------------------

	writers, closeWriters, err := export.Build(cfg)
	if err != nil {
		log.Fatalf("export build failed: %v", err)
	}
	defer func() { _ = closeWriters() }()

	if len(writers) == 0 {
		return
	}

	interval := time.Duration(cfg.CXL.Export.IntervalMs) * time.Millisecond

	for addrStr, w := range writers {
		dev := devices[addrStr]

		go func(dev *pci.Device, w *export.Writer) {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := w.WriteRecord(makeRecord(dev)); err != nil {
						log.Printf("status export failed (%s): %v", dev.Addr, err)
					}
				}
			}
		}(dev, w)
	}

	// --------------------
	// Block forever (daemon-safe, no deadlock)
	// --------------------
	for {
		time.Sleep(time.Hour)
	}
}

// makeRecord snapshots one device for export.
func makeRecord(dev *pci.Device) export.Record {
	if dev.CXLCap == 0 {
		return export.Record{Health: export.HealthAbsent}
	}

	regs, ok := dvsec.ReadSnapshot(dev)
	health := export.HealthOK
	if !ok {
		health = export.HealthError
	}

	return export.Record{
		Health:    health,
		CapOffset: dev.CXLCap,
		Regs:      regs,
	}
}
