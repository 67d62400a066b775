// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package power

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/goburrow/modbus"

	"github.com/hamma-dev/brokkr/pkg/decoder"
	"github.com/hamma-dev/brokkr/pkg/defaults"
	"github.com/hamma-dev/brokkr/pkg/measurement"
)

// Register block read on every fetch.
const (
	RegisterStart uint16 = 0x0008
	RegisterCount uint16 = 11
)

const (
	voltageScale = 100.0 / 32768
	currentScale = 79.16 / 32768
)

// RegisterFields is the layout of the register block, one 16-bit
// big-endian register per field.
var RegisterFields = []decoder.FieldSpec{
	{Name: "adc_vb_f", Raw: decoder.RawUint16, Output: decoder.OutputScaled, Scale: voltageScale},
	{Name: "adc_va_f", Raw: decoder.RawUint16, Output: decoder.OutputScaled, Scale: voltageScale},
	{Name: "adc_vl_f", Raw: decoder.RawUint16, Output: decoder.OutputScaled, Scale: voltageScale},
	{Name: "adc_ic_f", Raw: decoder.RawUint16, Output: decoder.OutputScaled, Scale: currentScale},
	{Name: "adc_il_f", Raw: decoder.RawUint16, Output: decoder.OutputScaled, Scale: currentScale},
	{Name: "t_hs", Raw: decoder.RawInt16, Output: decoder.OutputInt},
	{Name: "t_batt", Raw: decoder.RawInt16, Output: decoder.OutputInt},
	{Name: "t_amb", Raw: decoder.RawInt16, Output: decoder.OutputInt},
	{Name: "t_rts", Raw: decoder.RawInt16, Output: decoder.OutputInt},
	{Name: "charge_state", Raw: decoder.RawUint16, Output: decoder.OutputInt},
	{Name: "array_fault", Raw: decoder.RawUint16, Output: decoder.OutputInt},
}

// RegisterReader is the subset of a Modbus client used here.
type RegisterReader interface {
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
}

// DialFunc opens a connection to the controller.
type DialFunc func(cfg Config) (RegisterReader, io.Closer, error)

// Config holds the serial link settings.
type Config struct {
	Port     string
	BaudRate int
	UnitID   byte
	Timeout  time.Duration
	Logger   *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.Port == "" {
		c.Port = defaults.PowerSerialPort
	}
	if c.BaudRate <= 0 {
		c.BaudRate = defaults.PowerBaudRate
	}
	if c.UnitID == 0 {
		c.UnitID = defaults.PowerUnitID
	}
	if c.Timeout <= 0 {
		c.Timeout = defaults.PowerTimeout
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Controller fetches one register snapshot per call.
type Controller struct {
	cfg  Config
	dec  *decoder.Decoder
	dial DialFunc
}

// New returns a Controller that talks Modbus RTU over cfg.Port.
func New(cfg Config) *Controller {
	return NewWithDialer(cfg, DialRTU)
}

// NewWithDialer is like New but uses dial to reach the controller.
func NewWithDialer(cfg Config, dial DialFunc) *Controller {
	return &Controller{
		cfg:  cfg.withDefaults(),
		dec:  decoder.MustNew(RegisterFields),
		dial: dial,
	}
}

// Fields returns the record keys produced by Fetch.
func (c *Controller) Fields() []string {
	return c.dec.Fields()
}

// DialRTU opens the serial port described by cfg.
func DialRTU(cfg Config) (RegisterReader, io.Closer, error) {
	handler := modbus.NewRTUClientHandler(cfg.Port)
	handler.BaudRate = cfg.BaudRate
	handler.DataBits = 8
	handler.Parity = "N"
	handler.StopBits = 2
	handler.SlaveId = cfg.UnitID
	handler.Timeout = cfg.Timeout

	if err := handler.Connect(); err != nil {
		return nil, nil, err
	}
	return modbus.NewClient(handler), handler, nil
}

// Fetch reads the register block. Failures are logged and produce the
// placeholder record; Fetch only returns an error when ctx is done.
func (c *Controller) Fetch(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := c.cfg.Logger.With("port", c.cfg.Port, "unitID", c.cfg.UnitID)

	client, closer, err := c.dial(c.cfg)
	if err != nil {
		logger.Error("failed to connect to power controller", "error", err)
		return c.dec.Placeholder(), nil
	}
	defer func() {
		if cerr := closer.Close(); cerr != nil {
			logger.Debug("failed to close power controller port", "error", cerr)
		}
	}()

	raw, err := client.ReadHoldingRegisters(RegisterStart, RegisterCount)
	if err != nil {
		logger.Error("failed to read power controller registers", "error", err)
		return c.dec.Placeholder(), nil
	}

	rec, err := c.dec.Decode(raw)
	if err != nil {
		logger.Error("failed to decode power controller registers", "error", err, "bytes", len(raw))
		return c.dec.Placeholder(), nil
	}
	return rec, nil
}

// Placeholder returns a record with every register field set to NA.
func (c *Controller) Placeholder() *measurement.Record {
	return c.dec.Placeholder()
}
