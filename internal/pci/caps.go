// internal/pci/caps.go
package pci

// Capability-list walking. Both lists are singly linked inside config
// space; the ttl bounds below are what keep a malformed or cyclic chain
// from looping the caller forever, so users of these primitives do not
// need their own cycle guards.

const (
	// Legacy capability list.
	offStatus     = 0x06
	offCapPtr     = 0x34
	statusCapList = 1 << 4
	capFloor      = 0x40

	// Extended capability list.
	extCapStart = 0x100
	cfgSpaceLen = 4096

	// One legacy capability header is at least 4 bytes; bounds the walk.
	legacyTTL = (256 - capFloor) / 4
)

// MaxExtCaps is the most extended capabilities a 4 KiB config space can
// hold (one header is at least 8 bytes). It bounds every extended-list
// walk, and callers iterating FindNextExtCap should bound their outer
// loop with it too: the per-call ttl alone cannot catch a cycle that
// spans calls.
const MaxExtCaps = (cfgSpaceLen - extCapStart) / 8

// Legacy capability IDs.
const (
	CapPCIe uint8 = 0x10
)

// Extended capability IDs.
const (
	ExtCapDVSEC uint16 = 0x23
)

// FindCap walks the legacy capability list and returns the offset of the
// first capability with the given ID, or 0 if absent.
func FindCap(cs ConfigSpace, id uint8) uint16 {
	status, err := cs.ReadWord(offStatus)
	if err != nil || status&statusCapList == 0 {
		return 0
	}
	w, err := cs.ReadWord(offCapPtr)
	if err != nil {
		return 0
	}
	pos := w & 0xfc

	for ttl := legacyTTL; ttl > 0 && pos >= capFloor; ttl-- {
		hdr, err := cs.ReadWord(pos)
		if err != nil {
			return 0
		}
		if uint8(hdr&0xff) == id {
			return pos
		}
		pos = (hdr >> 8) & 0xfc
	}
	return 0
}

// FindNextExtCap returns the offset of the next extended capability with
// the given ID after start, or 0 at end of chain. Pass start=0 to begin
// at the head of the list.
func FindNextExtCap(cs ConfigSpace, start uint16, id uint16) uint16 {
	pos := uint16(extCapStart)
	if start != 0 {
		pos = extCapNext(cs, start)
	}

	for ttl := MaxExtCaps; ttl > 0 && pos != 0; ttl-- {
		hdr, err := cs.ReadWord(pos)
		if err != nil {
			return 0
		}
		if hdr == id {
			return pos
		}
		pos = extCapNext(cs, pos)
	}
	return 0
}

// extCapNext reads the next-pointer out of the extended capability
// header at pos. The high word is version(3:0) | next offset(15:4);
// offsets are dword-aligned.
func extCapNext(cs ConfigSpace, pos uint16) uint16 {
	hi, err := cs.ReadWord(pos + 2)
	if err != nil {
		return 0
	}
	next := (hi >> 4) &^ 0x3
	if next < extCapStart {
		return 0
	}
	return next
}

// deviceType reads the PCI Express capability flags word and decodes the
// device/port type.
func deviceType(cs ConfigSpace) DeviceType {
	pos := FindCap(cs, CapPCIe)
	if pos == 0 {
		return TypeUnknown
	}
	flags, err := cs.ReadWord(pos + 2)
	if err != nil {
		return TypeUnknown
	}
	return DeviceType((flags >> 4) & 0xf)
}
