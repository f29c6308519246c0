// internal/platform/platform.go
package platform

// Switches holds the platform-level CXL support knobs. They are read
// once from configuration at startup and exposed read-only; nothing in
// this repo derives or mutates them.
type Switches struct {
	portReg    bool
	portDevReg bool
	per        bool
	nativeHP   bool
}

// New builds the switch set from externally-supplied configuration.
func New(portReg, portDevReg, per, nativeHP bool) Switches {
	return Switches{
		portReg:    portReg,
		portDevReg: portDevReg,
		per:        per,
		nativeHP:   nativeHP,
	}
}

// PortRegEnabled reports whether access to CXL 1.1 port registers is
// supported.
func (s Switches) PortRegEnabled() bool { return s.portReg }

// PortDevRegEnabled reports whether access to CXL 2.0 port/device
// registers is supported.
func (s Switches) PortDevRegEnabled() bool { return s.portDevReg }

// ProtocolErrorReportingEnabled reports whether CXL protocol error
// reporting is supported.
func (s Switches) ProtocolErrorReportingEnabled() bool { return s.per }

// NativeHotplugEnabled reports whether CXL native hot plug is enabled.
func (s Switches) NativeHotplugEnabled() bool { return s.nativeHP }
