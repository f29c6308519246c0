// internal/pci/pci.go
package pci

import (
	"fmt"
	"sync"
)

// Addr is a PCI bus address (domain:bus:slot.fn).
type Addr struct {
	Domain        uint16
	Bus, Slot, Fn uint8
}

func (a Addr) String() string {
	return fmt.Sprintf("%04x:%02x:%02x.%01x", a.Domain, a.Bus, a.Slot, a.Fn)
}

// Devfn packs slot and function the way config space encodes them.
func (a Addr) Devfn() uint8 {
	return a.Slot<<3 | a.Fn
}

// ParseAddr parses "dddd:bb:ss.f" in the canonical lowercase form sysfs
// uses. The domain part is required.
func ParseAddr(s string) (Addr, error) {
	var a Addr
	var slot, fn uint8
	n, err := fmt.Sscanf(s, "%04x:%02x:%02x.%01x", &a.Domain, &a.Bus, &slot, &fn)
	if err != nil || n != 4 {
		return Addr{}, fmt.Errorf("pci: bad address %q (want dddd:bb:ss.f)", s)
	}
	if slot > 0x1f || fn > 0x7 {
		return Addr{}, fmt.Errorf("pci: address %q out of range", s)
	}
	a.Slot, a.Fn = slot, fn

	// Sscanf stops at the last verb; round-trip to reject trailing
	// junk and non-canonical spellings.
	if a.String() != s {
		return Addr{}, fmt.Errorf("pci: bad address %q (want dddd:bb:ss.f)", s)
	}
	return a, nil
}

// DeviceType is the PCI Express device/port type from the PCI Express
// capability flags word (bits 7:4).
type DeviceType uint8

const (
	TypeEndpoint       DeviceType = 0x0
	TypeLegacyEndpoint DeviceType = 0x1
	TypeRootPort       DeviceType = 0x4
	TypeUpstreamPort   DeviceType = 0x5
	TypeDownstreamPort DeviceType = 0x6
	TypePCIeToPCI      DeviceType = 0x7
	TypePCIToPCIe      DeviceType = 0x8
	TypeRCEndpoint     DeviceType = 0x9 // root-complex integrated endpoint
	TypeRCEventCol     DeviceType = 0xa

	// TypeUnknown marks devices without a PCI Express capability.
	TypeUnknown DeviceType = 0xff
)

// ConfigSpace is the 16-bit configuration-space transport.
// Registers are little-endian; offsets are byte offsets.
type ConfigSpace interface {
	ReadWord(off uint16) (uint16, error)
	WriteWord(off uint16, v uint16) error
}

// Device is one bus-attached device. It is created by whoever enumerates
// the bus (here: cmd/cxlctl from the config file) and handed to the
// dvsec package, which only reads the identity fields and maintains
// CXLCap.
type Device struct {
	Addr   Addr
	Type   DeviceType
	Config ConfigSpace

	// CXLCap is the cached CXL DVSEC offset. 0 means not discovered;
	// 0 is never a valid extended-capability offset.
	CXLCap uint16

	togglemu sync.Mutex
}

// ToggleLock serializes control-register toggle windows on this device.
// The DVSEC configuration-lock bit only prevents accidental persistent
// reconfiguration; it is not a mutual-exclusion primitive, so software
// that wants exclusion has to bring its own.
func (d *Device) ToggleLock() *sync.Mutex {
	return &d.togglemu
}

// IsPCIe reports whether a PCI Express capability was found.
func (d *Device) IsPCIe() bool {
	return d.Type != TypeUnknown
}
