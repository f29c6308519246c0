// internal/dvsec/report_test.go
package dvsec

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamzrod/cxlctl/internal/pci"
)

func TestReadSnapshot(t *testing.T) {
	m := cxlSpace(0x0005)
	m.setWord(capBase+OffCap, 0x4007) // cache+io+mem, viral
	m.setWord(capBase+OffStatus, 0x0001)
	dev := cxlDevice(m)

	s, ok := ReadSnapshot(dev)
	assert.True(t, ok)
	assert.Equal(t, uint16(0x4007), s.Cap)
	assert.Equal(t, uint16(0x0005), s.Ctrl)
	assert.Equal(t, uint16(0x0001), s.Status)
	assert.Equal(t, ConfigLock, s.Lock)
}

func TestReadSnapshot_BestEffort(t *testing.T) {
	m := cxlSpace(0x0005)
	m.failRead[capBase+OffStatus] = true
	dev := cxlDevice(m)

	// A failed read leaves zero; the snapshot is still produced, but
	// the failure is reported.
	s, ok := ReadSnapshot(dev)
	assert.False(t, ok)
	assert.Zero(t, s.Status)
	assert.Equal(t, uint16(0x0005), s.Ctrl)
}

func TestReadSnapshot_DeadTransport(t *testing.T) {
	// All six reads failing must be distinguishable from a device whose
	// registers legitimately read zero.
	m := cxlSpace(0)
	for _, off := range []uint16{OffCap, OffCtrl, OffStatus, OffCtrl2, OffStatus2, OffLock} {
		m.failRead[capBase+off] = true
	}
	dev := cxlDevice(m)

	s, ok := ReadSnapshot(dev)
	assert.False(t, ok)
	assert.Equal(t, Snapshot{}, s)

	zero, ok := ReadSnapshot(cxlDevice(cxlSpace(0)))
	assert.True(t, ok)
	assert.Equal(t, Snapshot{Lock: ConfigLock}, zero)
}

func TestHDMCount(t *testing.T) {
	assert.Equal(t, 0, HDMCount(0x0007))
	assert.Equal(t, 1, HDMCount(1<<4))
	assert.Equal(t, 2, HDMCount(2<<4))
	assert.Equal(t, 3, HDMCount(0xffff))
}

func TestDiscoverAndReport(t *testing.T) {
	m := cxlSpace(0x0003)
	m.setWord(capBase+OffCap, 0x0025) // cache, mem, HDM count 2
	dev := cxlDevice(m)

	var buf bytes.Buffer
	lg := log.New(&buf, "", 0)

	off := DiscoverAndReport(dev, lg)
	require.Equal(t, uint16(capBase), off)
	assert.Equal(t, uint16(capBase), dev.CXLCap)

	out := buf.String()
	assert.Contains(t, out, "CXL: Cache+ IO- Mem+ Viral- HDMCount 2")
	assert.Contains(t, out, "cap ctrl status ctrl2 status2 lock")
	assert.Contains(t, out, "0025 0003 0000 0000 0000 0001")
}

func TestDiscoverAndReport_WrongRole(t *testing.T) {
	m := cxlSpace(0)
	dev := newTestDevice(m, 0, 0, pci.TypeRootPort)

	var buf bytes.Buffer
	assert.Zero(t, DiscoverAndReport(dev, log.New(&buf, "", 0)))
	assert.Empty(t, buf.String())
	assert.Empty(t, m.writes)
}

func TestDiscoverAndReport_Absent(t *testing.T) {
	m := newMemSpace()
	dev := newTestDevice(m, 0, 0, pci.TypeRCEndpoint)

	var buf bytes.Buffer
	assert.Zero(t, DiscoverAndReport(dev, log.New(&buf, "", 0)))
	assert.Empty(t, buf.String())
}
