// internal/dvsec/locate.go
package dvsec

import (
	"github.com/tamzrod/cxlctl/internal/pci"
)

// FindCapability walks the device's DVSEC instances and returns the base
// offset of the first one keyed (VendorIDCXL, DVSECIDCXL), or 0 when the
// device has none. A device may carry several DVSECs with other keys;
// those are skipped, not treated as end of chain.
func FindCapability(dev *pci.Device) uint16 {
	var pos uint16

	// The walker's per-call ttl cannot catch a cycle that spans calls
	// (two foreign-keyed instances pointing at each other), so bound
	// the outer loop by the most instances a config space can hold.
	for i := 0; i < pci.MaxExtCaps; i++ {
		pos = pci.FindNextExtCap(dev.Config, pos, pci.ExtCapDVSEC)
		if pos == 0 {
			return 0
		}

		vendor, err := dev.Config.ReadWord(pos + offDVSECHeader1)
		if err != nil {
			continue
		}
		id, err := dev.Config.ReadWord(pos + offDVSECHeader2)
		if err != nil {
			continue
		}
		if vendor == VendorIDCXL && id == DVSECIDCXL {
			return pos
		}
	}
	return 0
}

// Discover returns the device's cached capability offset, locating and
// caching it first if needed. Idempotent; 0 means absent.
func Discover(dev *pci.Device) uint16 {
	if dev.CXLCap == 0 {
		dev.CXLCap = FindCapability(dev)
	}
	return dev.CXLCap
}
