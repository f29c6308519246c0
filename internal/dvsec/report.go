// internal/dvsec/report.go
package dvsec

import (
	"log"

	"github.com/tamzrod/cxlctl/internal/pci"
)

// Snapshot is one read of the six capability registers.
type Snapshot struct {
	Cap     uint16
	Ctrl    uint16
	Status  uint16
	Ctrl2   uint16
	Status2 uint16
	Lock    uint16
}

// ReadSnapshot reads all six registers. Best effort: a failed read
// leaves zero in that field and the snapshot is still returned. ok is
// false when any read failed, so callers can tell a dead transport from
// registers that legitimately read zero.
func ReadSnapshot(dev *pci.Device) (s Snapshot, ok bool) {
	ok = true
	rd := func(off uint16) uint16 {
		v, err := dev.Config.ReadWord(dev.CXLCap + off)
		if err != nil {
			ok = false
			return 0
		}
		return v
	}
	s.Cap = rd(OffCap)
	s.Ctrl = rd(OffCtrl)
	s.Status = rd(OffStatus)
	s.Ctrl2 = rd(OffCtrl2)
	s.Status2 = rd(OffStatus2)
	s.Lock = rd(OffLock)
	return s, ok
}

func flag(reg, bit uint16) byte {
	if reg&bit != 0 {
		return '+'
	}
	return '-'
}

// DiscoverAndReport runs discovery on dev and, when the capability is
// found, logs the decoded capability flags and a dump of all six
// registers. Returns the discovered offset (0 = absent or out of
// scope). Only device 0 function 0 root-complex integrated endpoints
// are considered.
func DiscoverAndReport(dev *pci.Device, lg *log.Logger) uint16 {
	if !dev.IsPCIe() {
		return 0
	}
	if dev.Addr.Devfn() != 0 || dev.Type != pci.TypeRCEndpoint {
		return 0
	}

	if Discover(dev) == 0 {
		return 0
	}

	// Diagnostic only: report whatever was readable.
	s, _ := ReadSnapshot(dev)

	lg.Printf("%s CXL: Cache%c IO%c Mem%c Viral%c HDMCount %d",
		dev.Addr,
		flag(s.Cap, FlagCache),
		flag(s.Cap, FlagIO),
		flag(s.Cap, FlagMem),
		flag(s.Cap, FlagViral),
		HDMCount(s.Cap))

	lg.Printf("%s CXL: cap ctrl status ctrl2 status2 lock", dev.Addr)
	lg.Printf("%s CXL: %04x %04x %04x %04x %04x %04x",
		dev.Addr, s.Cap, s.Ctrl, s.Status, s.Ctrl2, s.Status2, s.Lock)

	return dev.CXLCap
}
