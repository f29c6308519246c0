// internal/export/record.go
package export

import "github.com/tamzrod/cxlctl/internal/dvsec"

// Record is exactly what the writer is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Record struct {
	Health    uint16
	CapOffset uint16
	Regs      dvsec.Snapshot
}

// liveSlots flattens the record into (slot index, value) pairs in block
// order. Name slots are not live; they never change after build.
func (r Record) liveSlots() [8]uint16 {
	return [8]uint16{
		SlotHealthCode: r.Health,
		SlotCap:        r.Regs.Cap,
		SlotCtrl:       r.Regs.Ctrl,
		SlotStatus:     r.Regs.Status,
		SlotCtrl2:      r.Regs.Ctrl2,
		SlotStatus2:    r.Regs.Status2,
		SlotLock:       r.Regs.Lock,
		SlotCapOffset:  r.CapOffset,
	}
}
