// Package controller drives a single fan coil unit: it turns user intents
// into ordered write-command frames and tracks the unit's climate state
// between telemetry updates.
package controller

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/yipfcu/fcubridge/internal/climate"
	"github.com/yipfcu/fcubridge/internal/protocol"
)

// DefaultSettleInterval is the pause between a mode-register write and the
// power-on write that follows it. The device firmware ignores a power-on
// command issued in the same control cycle as a mode change, so this wait
// is a protocol requirement, not tuning.
const DefaultSettleInterval = 300 * time.Millisecond

// ErrClosed is returned for intents issued after Close.
var ErrClosed = errors.New("controller: closed")

// Publisher delivers a built command frame to the device. Implementations
// must preserve publish order for a single device.
type Publisher interface {
	Publish(ctx context.Context, payload string) error
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(ctx context.Context, payload string) error

// Publish calls f.
func (f PublisherFunc) Publish(ctx context.Context, payload string) error {
	return f(ctx, payload)
}

// Controller owns the climate state of one fan coil unit. State is mutated
// from two directions: optimistically when a command is issued, and
// authoritatively whenever a verified telemetry snapshot arrives — the
// snapshot always wins. A Controller is safe for concurrent use; no state
// is shared between controllers.
type Controller struct {
	addr   string // normalized device address
	pub    Publisher
	settle time.Duration

	mu    sync.Mutex
	state climate.State

	done      chan struct{}
	closeOnce sync.Once
}

// Option configures a Controller.
type Option func(*Controller)

// WithSettleInterval overrides the mode-change settle interval. Intended
// for tests; the protocol requires a non-zero wait on real hardware.
func WithSettleInterval(d time.Duration) Option {
	return func(c *Controller) { c.settle = d }
}

// New creates a controller for the device at addr, publishing command
// frames through pub. The address is normalized and validated here so every
// frame the controller builds is well-formed by construction.
func New(addr string, pub Publisher, opts ...Option) (*Controller, error) {
	mac, err := protocol.NormalizeAddress(addr)
	if err != nil {
		return nil, err
	}
	c := &Controller{
		addr:   mac,
		pub:    pub,
		settle: DefaultSettleInterval,
		state:  climate.NewState(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Address returns the normalized device address.
func (c *Controller) Address() string {
	return c.addr
}

// State returns a copy of the current climate state.
func (c *Controller) State() climate.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ApplySnapshot overwrites local state with a verified telemetry snapshot.
func (c *Controller) ApplySnapshot(snap *protocol.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.ApplySnapshot(snap)
}

// TurnOn powers the unit on without touching the mode register.
// Turning on an already-on unit is harmless.
func (c *Controller) TurnOn(ctx context.Context) error {
	return c.writeRegister(ctx, protocol.RegPower, 0x01)
}

// TurnOff powers the unit off without touching the mode register.
func (c *Controller) TurnOff(ctx context.Context) error {
	if err := c.writeRegister(ctx, protocol.RegPower, 0x00); err != nil {
		return err
	}
	c.mu.Lock()
	c.state.Mode = climate.ModeOff
	c.mu.Unlock()
	return nil
}

// SetTemperature writes the target temperature register. The value is
// encoded in half-degree units; t is rounded to the nearest half degree
// and must lie within [climate.MinTemp, climate.MaxTemp].
func (c *Controller) SetTemperature(ctx context.Context, t float64) error {
	if t < climate.MinTemp || t > climate.MaxTemp {
		return fmt.Errorf("controller: temperature %.1f°C outside [%.0f, %.0f]", t, climate.MinTemp, climate.MaxTemp)
	}
	raw := byte(math.Round(t * 2))
	if err := c.writeRegister(ctx, protocol.RegSetTemp, raw); err != nil {
		return err
	}
	c.mu.Lock()
	c.state.TargetTemp = float64(raw) / 2.0
	c.mu.Unlock()
	return nil
}

// SetHVACMode switches the unit's operating mode.
//
// ModeOff is equivalent to TurnOff. Any other mode is a compound
// transition: write the mode register, wait the settle interval so the
// firmware latches the new mode, then write power on. Skipping the wait
// makes the device power on in its previous mode. The wait suspends only
// this intent — other devices and other intents are unaffected — and is
// abandoned when the controller is closed or ctx is cancelled, in which
// case no power-on command is emitted.
//
// Local mode state is updated optimistically ahead of telemetry
// confirmation; the next snapshot overwrites it either way.
func (c *Controller) SetHVACMode(ctx context.Context, mode climate.HVACMode) error {
	if mode == climate.ModeOff {
		return c.TurnOff(ctx)
	}
	code, ok := climate.ModeCode(mode)
	if !ok {
		return fmt.Errorf("controller: hvac mode %q has no register encoding", mode)
	}

	if err := c.writeRegister(ctx, protocol.RegMode, code); err != nil {
		return err
	}

	timer := time.NewTimer(c.settle)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-c.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := c.writeRegister(ctx, protocol.RegPower, 0x01); err != nil {
		return err
	}

	c.mu.Lock()
	c.state.Mode = mode
	c.mu.Unlock()
	return nil
}

// SetFanMode writes the fan-speed register. "AUTO" maps to its register
// code; any other value must be integer-parseable. An unparsable value is
// rejected before any frame is built.
func (c *Controller) SetFanMode(ctx context.Context, name string) error {
	code, err := climate.FanModeCode(name)
	if err != nil {
		return err
	}
	if err := c.writeRegister(ctx, protocol.RegFanSpeed, code); err != nil {
		return err
	}
	c.mu.Lock()
	c.state.FanMode = climate.FanModeName(code)
	c.mu.Unlock()
	return nil
}

// SetSwingMode writes the swing register. Unrecognized names fall back to
// SWEEP ON rather than failing, mirroring the inbound decode policy.
func (c *Controller) SetSwingMode(ctx context.Context, name string) error {
	code := climate.SwingModeCode(name)
	if err := c.writeRegister(ctx, protocol.RegSwing, code); err != nil {
		return err
	}
	c.mu.Lock()
	c.state.SwingMode = climate.SwingModeName(code)
	c.mu.Unlock()
	return nil
}

// Close tears the controller down. A mode change waiting out its settle
// interval is abandoned without emitting the trailing power-on command.
func (c *Controller) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// writeRegister builds and publishes a single-register write frame.
func (c *Controller) writeRegister(ctx context.Context, register, value byte) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	payload, err := protocol.BuildWriteCommand(c.addr, register, value)
	if err != nil {
		return err
	}
	return c.pub.Publish(ctx, payload)
}
