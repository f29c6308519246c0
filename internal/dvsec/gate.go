// internal/dvsec/gate.go
package dvsec

import (
	"errors"
	"fmt"

	"github.com/tamzrod/cxlctl/internal/pci"
)

var (
	// ErrNoCapability means the device has no discovered CXL DVSEC.
	ErrNoCapability = errors.New("dvsec: capability not present")

	// ErrUnsupportedTopology means the device is not device 0 function 0
	// or not a root-complex integrated endpoint. The lock protocol and
	// control-register semantics are only defined for that attachment
	// point.
	ErrUnsupportedTopology = errors.New("dvsec: not a device 0 function 0 root-complex integrated endpoint")
)

// unlock clears the configuration lock. Best effort: by definition the
// lock register itself is writable, and there is nothing useful to do
// with a failed lock-state write.
func unlock(dev *pci.Device) {
	lock, err := dev.Config.ReadWord(dev.CXLCap + OffLock)
	if err != nil {
		return
	}
	lock &^= ConfigLock
	_ = dev.Config.WriteWord(dev.CXLCap+OffLock, lock)
}

// lock sets the configuration lock. Best effort, same as unlock.
func lock(dev *pci.Device) {
	lock, err := dev.Config.ReadWord(dev.CXLCap + OffLock)
	if err != nil {
		return
	}
	lock |= ConfigLock
	_ = dev.Config.WriteWord(dev.CXLCap+OffLock, lock)
}

// setFeature toggles one control-register bit under the lock protocol:
// unlock, read-modify-write, re-lock. The re-lock always runs, even when
// the control read or write fails; the control registers must never be
// left unlocked.
//
// The configuration lock prevents accidental persistent reconfiguration
// only — it is not mutual exclusion (CXL 1.1, sec 7.1.1.6). The
// per-device toggle mutex taken here serializes concurrent callers in
// this process; that is an addition over the hardware contract, not
// something the lock bit provides.
func setFeature(dev *pci.Device, feature uint16, enable bool) error {
	if dev.CXLCap == 0 {
		return ErrNoCapability
	}
	if dev.Addr.Devfn() != 0 || dev.Type != pci.TypeRCEndpoint {
		return ErrUnsupportedTopology
	}

	mu := dev.ToggleLock()
	mu.Lock()
	defer mu.Unlock()

	unlock(dev)
	defer lock(dev)

	reg, err := dev.Config.ReadWord(dev.CXLCap + OffCtrl)
	if err != nil {
		return fmt.Errorf("dvsec %s: control read: %w", dev.Addr, err)
	}

	if enable {
		reg |= feature
	} else {
		reg &^= feature
	}

	if err := dev.Config.WriteWord(dev.CXLCap+OffCtrl, reg); err != nil {
		return fmt.Errorf("dvsec %s: control write: %w", dev.Addr, err)
	}
	return nil
}

// EnableMem enables CXL.mem accesses.
func EnableMem(dev *pci.Device) error {
	return setFeature(dev, FlagMem, true)
}

// DisableMem disables CXL.mem accesses. Teardown is best effort; there
// is no recovery a caller could take, so failures are not reported.
func DisableMem(dev *pci.Device) {
	_ = setFeature(dev, FlagMem, false)
}

// EnableCache enables CXL.cache accesses.
func EnableCache(dev *pci.Device) error {
	return setFeature(dev, FlagCache, true)
}

// DisableCache disables CXL.cache accesses. Best effort, like
// DisableMem.
func DisableCache(dev *pci.Device) {
	_ = setFeature(dev, FlagCache, false)
}
