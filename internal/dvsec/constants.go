// internal/dvsec/constants.go

// Package dvsec locates the CXL DVSEC capability on root-complex
// integrated endpoints and toggles the CXL.cache / CXL.mem enables under
// the configuration-lock protocol.
package dvsec

// DVSEC instance identity. CXL devices carry a Designated
// Vendor-Specific Extended Capability keyed by the CXL consortium
// vendor ID and DVSEC ID 0 (PCIe r5.0 sec 7.9.6.2, CXL 1.1 sec 7.1.1).
const (
	VendorIDCXL uint16 = 0x1e98
	DVSECIDCXL  uint16 = 0x0
)

// DVSEC header words, relative to the capability base. Header1's low
// word is the vendor ID; header2's low word is the DVSEC ID.
const (
	offDVSECHeader1 = 0x4
	offDVSECHeader2 = 0x8
)

// ---- REGISTER LAYOUT ----

// Byte offsets of the six 16-bit registers, relative to the discovered
// capability base. Layout is protocol-locked; never recomputed.
const (
	OffCap     = 0x0a // capability flags, RO
	OffCtrl    = 0x0c // control, RW while unlocked
	OffStatus  = 0x0e // status, RO
	OffCtrl2   = 0x10 // secondary control, RW while unlocked
	OffStatus2 = 0x12 // secondary status, RO
	OffLock    = 0x14 // lock
)

// ---- CAPABILITY / CONTROL BITS ----

const (
	FlagCache uint16 = 1 << 0
	FlagIO    uint16 = 1 << 1
	FlagMem   uint16 = 1 << 2
	FlagViral uint16 = 1 << 14
)

// HDMCount decodes the HDM-range count sub-field (bits 5:4).
func HDMCount(reg uint16) int {
	return int((reg & (3 << 4)) >> 4)
}

// ---- LOCK REGISTER ----

// ConfigLock makes the control registers read-only while set. It guards
// against accidental persistent reconfiguration only; it is not a
// mutual-exclusion primitive (CXL 1.1, sec 7.1.1.6).
const ConfigLock uint16 = 1 << 0
