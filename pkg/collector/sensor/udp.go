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

package sensor

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/hamma-dev/brokkr/pkg/decoder"
	"github.com/hamma-dev/brokkr/pkg/defaults"
	"github.com/hamma-dev/brokkr/pkg/measurement"
)

// PacketConfig describes where and how long to listen for a status datagram.
type PacketConfig struct {
	// Host is the local address to bind. Defaults to defaults.LocalIP.
	Host string

	// Port is the local UDP port to bind. Defaults to defaults.StatusPort.
	Port int

	// BufferSize is the receive buffer length. Defaults to defaults.StatusBufferSize.
	BufferSize int

	// PacketSize truncates longer datagrams when positive.
	PacketSize int

	// Timeout bounds the wait for a datagram. Defaults to defaults.StatusTimeout.
	Timeout time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

func (c PacketConfig) withDefaults() PacketConfig {
	if c.Host == "" {
		c.Host = defaults.LocalIP
	}
	if c.Port == 0 {
		c.Port = defaults.StatusPort
	}
	if c.BufferSize <= 0 {
		c.BufferSize = defaults.StatusBufferSize
	}
	if c.Timeout <= 0 {
		c.Timeout = defaults.StatusTimeout
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Address returns the host:port the socket binds to.
func (c PacketConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ReadPacket binds a UDP socket, waits for a single datagram and returns its
// payload. A link that is down, a timeout, an empty datagram or a receive
// failure all return (nil, nil) after logging. Only ctx cancellation is
// returned as an error.
func ReadPacket(ctx context.Context, cfg PacketConfig) ([]byte, error) {
	cfg = cfg.withDefaults()
	logger := cfg.Logger.With("address", cfg.Address())

	logger.Debug("reading sensor status packet")

	var lc net.ListenConfig
	conn, err := lc.ListenPacket(ctx, "udp4", cfg.Address())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if IsLinkDown(err) {
			logger.Debug("suppressing address error binding status socket", "error", err)
			return nil, nil
		}
		logger.Error("failed to bind status socket", "error", err, "socket", "udp4")
		return nil, nil
	}
	defer conn.Close()

	logger = logger.With("socket", conn.LocalAddr().String())
	logger.Debug("listening on status socket")

	deadline := time.Now().Add(cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		logger.Error("failed to set status socket deadline", "error", err)
		return nil, nil
	}

	// Wake the read early when ctx is cancelled.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	buf := make([]byte, cfg.BufferSize)
	n, _, err := conn.ReadFrom(buf)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, os.ErrDeadlineExceeded) {
			logger.Debug("status socket timed out waiting for data", "timeout", cfg.Timeout)
			return nil, nil
		}
		logger.Error("failed to receive status data", "error", err, "port", cfg.Port)
		return nil, nil
	}

	if n == 0 {
		logger.Warn("empty status datagram received")
		return nil, nil
	}

	packet := buf[:n]
	if cfg.PacketSize > 0 && len(packet) > cfg.PacketSize {
		packet = packet[:cfg.PacketSize]
	}
	logger.Debug("status packet received", "bytes", n, "packet", hex.EncodeToString(packet))

	return packet, nil
}

// Acquire reads one status packet and decodes it with dec. No data yields
// (nil, nil); decode failures are returned.
func Acquire(ctx context.Context, cfg PacketConfig, dec *decoder.Decoder) (*measurement.Record, error) {
	cfg.PacketSize = dec.PacketSize()

	packet, err := ReadPacket(ctx, cfg)
	if err != nil || packet == nil {
		return nil, err
	}

	return dec.Decode(packet)
}

// StatusSource returns a fetch function for the sensor status source. Missing
// or short packets produce dec's placeholder so the record keeps its fields.
func StatusSource(cfg PacketConfig, dec *decoder.Decoder) func(ctx context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		rec, err := Acquire(ctx, cfg, dec)
		switch {
		case errors.Is(err, decoder.ErrTruncated):
			logger := cfg.Logger
			if logger == nil {
				logger = slog.Default()
			}
			logger.Warn("discarding short status packet", "error", err)
			return dec.Placeholder(), nil
		case err != nil:
			return nil, err
		case rec == nil:
			return dec.Placeholder(), nil
		}
		return rec, nil
	}
}
