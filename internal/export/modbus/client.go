// internal/export/modbus/client.go
package modbus

import (
	"encoding/binary"
	"errors"
	"time"

	gomodbus "github.com/goburrow/modbus"
)

// EndpointClient implements the export writer's endpoint contract over
// Modbus TCP holding registers.
type EndpointClient struct {
	handler *gomodbus.TCPClientHandler
	cli     gomodbus.Client
}

// Config is minimal transport config.
type Config struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration
}

// New creates a connected Modbus TCP client.
func New(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbus client: endpoint required")
	}

	h := gomodbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	if err := h.Connect(); err != nil {
		return nil, err
	}

	return &EndpointClient{
		handler: h,
		cli:     gomodbus.NewClient(h),
	}, nil
}

// Close closes the TCP connection.
func (c *EndpointClient) Close() error {
	if c == nil || c.handler == nil {
		return nil
	}
	return c.handler.Close()
}

// WriteRegisters writes regs as holding registers starting at addr.
func (c *EndpointClient) WriteRegisters(addr uint16, regs []uint16) error {
	if len(regs) == 0 {
		return nil
	}

	buf := make([]byte, 2*len(regs))
	for i, r := range regs {
		binary.BigEndian.PutUint16(buf[2*i:], r)
	}

	_, err := c.cli.WriteMultipleRegisters(addr, uint16(len(regs)), buf)
	return err
}
