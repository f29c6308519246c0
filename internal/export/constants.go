// internal/export/constants.go

// Package export mirrors per-device CXL capability state into a Modbus
// status memory so plant monitoring can watch it. Delivery only: no
// interpretation of the register values happens here.
package export

// Status block layout constants.
// These values define the protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of registers per device block.
const SlotsPerDevice = 20

// ---- SLOT INDICES ----

// SlotHealthCode holds the device health state.
const SlotHealthCode = 0

// Slots 1-6 mirror the six DVSEC registers in layout order.
const (
	SlotCap     = 1
	SlotCtrl    = 2
	SlotStatus  = 3
	SlotCtrl2   = 4
	SlotStatus2 = 5
	SlotLock    = 6
)

// SlotCapOffset holds the discovered capability offset (0 = absent).
const SlotCapOffset = 7

// ---- RESERVED RANGE ----

// Slots 8-10 are reserved for future use.
const SlotReservedStart = 8
const SlotReservedEnd = 10

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// Device name is always placed at the END of the status block.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// ---- LIMITS ----

// DeviceNameMaxChars is the maximum number of ASCII characters stored
// for the device name.
const DeviceNameMaxChars = 16

// ---- HEALTH CODES ----

// HealthUnknown represents an unknown or boot state.
const HealthUnknown uint16 = 0

// HealthOK means the capability was discovered and reads succeed.
const HealthOK uint16 = 1

// HealthError means register reads are failing.
const HealthError uint16 = 2

// HealthAbsent means the device carries no CXL DVSEC.
const HealthAbsent uint16 = 3
