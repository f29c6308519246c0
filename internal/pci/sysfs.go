// internal/pci/sysfs.go
package pci

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
)

const sysfsDevices = "/sys/bus/pci/devices"

// SysfsSpace is a ConfigSpace over the kernel's per-device config file.
// Reads past the file's length (e.g. extended space on a conventional
// PCI device) fail like any short read.
type SysfsSpace struct {
	f *os.File
}

func openSysfsSpace(a Addr) (*SysfsSpace, error) {
	path := filepath.Join(sysfsDevices, a.String(), "config")
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("pci %s: %w", a, err)
	}
	return &SysfsSpace{f: f}, nil
}

func (s *SysfsSpace) ReadWord(off uint16) (uint16, error) {
	var b [2]byte
	if _, err := s.f.ReadAt(b[:], int64(off)); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func (s *SysfsSpace) WriteWord(off uint16, v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	_, err := s.f.WriteAt(b[:], int64(off))
	return err
}

func (s *SysfsSpace) Close() error {
	return s.f.Close()
}

// OpenSysfs opens the device at addr through sysfs and decodes its PCI
// Express type. Close the returned device's Config (a *SysfsSpace) when
// done.
func OpenSysfs(a Addr) (*Device, error) {
	cs, err := openSysfsSpace(a)
	if err != nil {
		return nil, err
	}
	return &Device{
		Addr:   a,
		Type:   deviceType(cs),
		Config: cs,
	}, nil
}
