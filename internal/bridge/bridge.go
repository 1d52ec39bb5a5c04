// Package bridge hosts one device controller per configured fan coil unit
// and routes message-bus traffic between them and the broker.
//
// Inbound payloads are decoded and applied to the owning controller's
// climate state; outbound command frames are published to each device's
// command topic. Devices are fully independent: a slow or mid-sequence
// device never blocks another device's message handling.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yipfcu/fcubridge/internal/bus"
	"github.com/yipfcu/fcubridge/internal/climate"
	"github.com/yipfcu/fcubridge/internal/config"
	"github.com/yipfcu/fcubridge/internal/controller"
	"github.com/yipfcu/fcubridge/internal/logging"
	"github.com/yipfcu/fcubridge/internal/protocol"
	"github.com/yipfcu/fcubridge/internal/topics"
)

// StateUpdate is published to observers whenever a device's climate state
// changes from telemetry.
type StateUpdate struct {
	Address    string        `json:"address"`
	Name       string        `json:"name"`
	State      climate.State `json:"state"`
	ReceivedAt time.Time     `json:"received_at"`
}

// DeviceStatus is a point-in-time view of one hosted device.
type DeviceStatus struct {
	Address       string        `json:"address"`
	Name          string        `json:"name"`
	State         climate.State `json:"state"`
	LastSeen      time.Time     `json:"last_seen,omitzero"`
	Frames        uint64        `json:"frames"`
	InvalidFrames uint64        `json:"invalid_frames"`
}

// device pairs a controller with its bus wiring and counters.
type device struct {
	meta config.Device
	ctrl *controller.Controller

	mu       sync.Mutex
	lastSeen time.Time
	frames   uint64
	invalid  uint64
}

// Bus is the slice of the message-bus client the bridge needs. *bus.Client
// satisfies it; tests substitute fakes.
type Bus interface {
	Subscribe(topic string, h bus.Handler) error
	Unsubscribe(topics ...string) error
	Publish(ctx context.Context, topic string, payload []byte) error
}

// Bridge hosts the configured devices over one broker session.
type Bridge struct {
	bus Bus

	devices map[string]*device // keyed by normalized address

	subMu sync.Mutex
	subs  map[chan StateUpdate]struct{}
}

// New builds a bridge for every device in the registry. Each controller
// publishes its command frames to the device's own command topic.
func New(busClient Bus, reg *config.Registry) (*Bridge, error) {
	b := &Bridge{
		bus:     busClient,
		devices: make(map[string]*device),
		subs:    make(map[chan StateUpdate]struct{}),
	}

	for addr, meta := range reg.Devices {
		mac, err := protocol.NormalizeAddress(addr)
		if err != nil {
			return nil, fmt.Errorf("bridge: device %q: %w", addr, err)
		}
		cmdTopic := topics.Command(meta.Location, meta.ProtocolPrefix, mac, meta.AppName)
		pub := controller.PublisherFunc(func(ctx context.Context, payload string) error {
			logging.Debug("publishing command",
				zap.String("device", mac),
				zap.String("topic", cmdTopic),
				zap.String("payload", payload),
			)
			return busClient.Publish(ctx, cmdTopic, []byte(payload))
		})
		ctrl, err := controller.New(mac, pub)
		if err != nil {
			return nil, fmt.Errorf("bridge: device %q: %w", addr, err)
		}
		b.devices[mac] = &device{meta: *meta, ctrl: ctrl}
	}

	return b, nil
}

// Start subscribes to every device's broadcast and response topics.
func (b *Bridge) Start() error {
	for mac, dev := range b.devices {
		mac := mac
		handler := func(topic string, payload []byte) {
			b.handleMessage(mac, topic, payload)
		}
		broadcast := topics.Broadcast(dev.meta.Location, dev.meta.ProtocolPrefix, mac)
		response := topics.Response(dev.meta.Location, dev.meta.ProtocolPrefix, topics.ResponseAnyApp, mac)
		if err := b.bus.Subscribe(broadcast, handler); err != nil {
			return err
		}
		if err := b.bus.Subscribe(response, handler); err != nil {
			return err
		}
		logging.Info("device online",
			zap.String("device", mac),
			zap.String("name", dev.meta.Name),
		)
	}
	return nil
}

// handleMessage decodes one inbound payload for a device and applies any
// telemetry it carries. Decode failures affect only this payload.
func (b *Bridge) handleMessage(mac, topic string, payload []byte) {
	dev, ok := b.devices[mac]
	if !ok {
		return
	}

	text := string(payload)
	logging.LogFramePayload("frame received", mac, text)

	frame, err := protocol.Decode(text)
	switch {
	case errors.Is(err, protocol.ErrChecksumMismatch):
		// Structurally valid but corrupted in transit; worth surfacing.
		dev.mu.Lock()
		dev.invalid++
		dev.mu.Unlock()
		logging.Warn("frame failed checksum",
			zap.String("device", mac),
			zap.String("topic", topic),
		)
		return
	case err != nil:
		// Not a protocol frame; the bus carries other traffic too.
		logging.Debug("ignoring non-frame payload",
			zap.String("device", mac),
			zap.String("topic", topic),
		)
		return
	}

	dev.mu.Lock()
	dev.frames++
	dev.lastSeen = time.Now()
	dev.mu.Unlock()

	snap, ok := frame.Snapshot()
	if !ok {
		// Write echoes and short read responses carry no register block.
		logging.Debug("frame carries no telemetry snapshot",
			zap.String("device", mac),
			zap.String("frame", frame.String()),
		)
		return
	}

	dev.ctrl.ApplySnapshot(snap)
	state := dev.ctrl.State()
	logging.Info("telemetry applied",
		zap.String("device", mac),
		zap.String("mode", string(state.Mode)),
		zap.Float64("target_temp", state.TargetTemp),
		zap.Float64("current_temp", state.CurrentTemp),
		zap.String("fan_mode", state.FanMode),
		zap.String("swing_mode", state.SwingMode),
	)

	b.notify(StateUpdate{
		Address:    mac,
		Name:       dev.meta.Name,
		State:      state,
		ReceivedAt: time.Now(),
	})
}

// Controller returns the controller for a normalized device address.
func (b *Bridge) Controller(mac string) (*controller.Controller, bool) {
	dev, ok := b.devices[mac]
	if !ok {
		return nil, false
	}
	return dev.ctrl, true
}

// Devices returns a snapshot of every hosted device's status.
func (b *Bridge) Devices() []DeviceStatus {
	out := make([]DeviceStatus, 0, len(b.devices))
	for mac, dev := range b.devices {
		dev.mu.Lock()
		status := DeviceStatus{
			Address:       mac,
			Name:          dev.meta.Name,
			State:         dev.ctrl.State(),
			LastSeen:      dev.lastSeen,
			Frames:        dev.frames,
			InvalidFrames: dev.invalid,
		}
		dev.mu.Unlock()
		out = append(out, status)
	}
	return out
}

// SubscribeUpdates registers an observer for state updates. The returned
// cancel function must be called to release the channel. Slow observers
// miss updates rather than stalling telemetry handling.
func (b *Bridge) SubscribeUpdates() (<-chan StateUpdate, func()) {
	ch := make(chan StateUpdate, 16)
	b.subMu.Lock()
	b.subs[ch] = struct{}{}
	b.subMu.Unlock()

	cancel := func() {
		b.subMu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.subMu.Unlock()
	}
	return ch, cancel
}

// notify fans an update out to observers without blocking.
func (b *Bridge) notify(update StateUpdate) {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- update:
		default:
		}
	}
}

// Close tears down every controller. Pending settle waits are abandoned.
func (b *Bridge) Close() {
	for mac, dev := range b.devices {
		dev.ctrl.Close()
		broadcast := topics.Broadcast(dev.meta.Location, dev.meta.ProtocolPrefix, mac)
		response := topics.Response(dev.meta.Location, dev.meta.ProtocolPrefix, topics.ResponseAnyApp, mac)
		if err := b.bus.Unsubscribe(broadcast, response); err != nil {
			logging.Warn("unsubscribe failed", zap.String("device", mac), zap.Error(err))
		}
	}
}
