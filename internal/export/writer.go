// internal/export/writer.go
package export

import (
	"errors"
	"fmt"
	"strings"
)

// endpointClient is the exact contract the writer uses.
// IMPORTANT: There must be NO other version of this interface anywhere.
type endpointClient interface {
	WriteRegisters(addr uint16, regs []uint16) error
}

// Writer delivers device records into one status block.
// On any write failure, the next successful call re-asserts the full
// block.
type Writer struct {
	slot uint16
	cli  endpointClient

	needFull bool
	last     Record
	nameRegs []uint16
}

// NewWriter builds a writer for one device's block.
func NewWriter(slot uint16, name string, cli endpointClient) (*Writer, error) {
	if cli == nil {
		return nil, errors.New("export: client required")
	}
	return &Writer{
		slot:     slot,
		cli:      cli,
		needFull: true, // full re-assert on first delivery
		nameRegs: encodeNameRegs(name),
	}, nil
}

func (w *Writer) baseAddr() uint16 {
	// Each device owns a fixed SlotsPerDevice block.
	return w.slot * SlotsPerDevice
}

// WriteRecord delivers one record. Unchanged slots are skipped unless a
// full re-assert is pending.
func (w *Writer) WriteRecord(r Record) error {
	base := w.baseAddr()

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if w.needFull {
		regs := w.fullBlockRegs(r)

		if err := w.cli.WriteRegisters(base, regs); err != nil {
			w.needFull = true
			return fmt.Errorf("export: full block write failed: %w", err)
		}

		w.needFull = false
		w.last = r
		return nil
	}

	// ------------------------------------------------------------
	// Delta writes, one slot at a time
	// ------------------------------------------------------------
	var errs []string

	cur := r.liveSlots()
	prev := w.last.liveSlots()

	for slot := 0; slot < len(cur); slot++ {
		if cur[slot] == prev[slot] {
			continue
		}
		if err := w.cli.WriteRegisters(base+uint16(slot), []uint16{cur[slot]}); err != nil {
			errs = append(errs, fmt.Sprintf("slot%d write failed: %v", slot, err))
		}
	}

	// A failure below flips needFull, so a stale last is harmless.
	w.last = r

	if len(errs) > 0 {
		// Any partial failure introduces doubt — re-assert on next call.
		w.needFull = true
		return errors.New("export: " + strings.Join(errs, " | "))
	}

	return nil
}

func (w *Writer) fullBlockRegs(r Record) []uint16 {
	regs := make([]uint16, SlotsPerDevice)

	live := r.liveSlots()
	copy(regs, live[:])

	// Slots SlotReservedStart..SlotReservedEnd stay zero.

	// Device name always lives at the end of the block.
	for i := 0; i < SlotDeviceNameSlots; i++ {
		dst := SlotDeviceNameStart + i
		if dst < len(regs) && i < len(w.nameRegs) {
			regs[dst] = w.nameRegs[i]
		}
	}

	return regs
}

// encodeNameRegs packs up to 16 ASCII characters into 8 uint16
// registers, two big-endian bytes per register.
func encodeNameRegs(name string) []uint16 {
	out := make([]uint16, SlotDeviceNameSlots)

	b := []byte(name)
	if len(b) > DeviceNameMaxChars {
		b = b[:DeviceNameMaxChars]
	}

	// sanitize to printable ASCII
	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < DeviceNameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}
