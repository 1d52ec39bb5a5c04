// Package bus wraps the MQTT client used to reach the fan coil units.
//
// Frames travel as plain ASCII payloads; this package moves bytes between
// topics and callbacks and knows nothing about the frame protocol. Publish
// order is preserved per client, which the controller's command sequencing
// relies on.
package bus

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/yipfcu/fcubridge/internal/logging"
)

// Commands and telemetry ride QoS 1: a lost power-on half of a mode change
// is worse than a duplicate, and duplicates are harmless register writes.
const qosAtLeastOnce = 1

const (
	defaultConnectTimeout = 10 * time.Second
	defaultKeepAlive      = 60 * time.Second
	defaultPingTimeout    = 30 * time.Second
)

// Config holds the broker connection settings.
type Config struct {
	URL      string // Broker URL, e.g. "tcp://broker.local:1883"
	ClientID string
	Username string
	Password string
}

// Handler receives the payload of one inbound message.
type Handler func(topic string, payload []byte)

// Client is a connected MQTT session.
type Client struct {
	m mqtt.Client
}

// Dial connects to the broker and blocks until the session is established
// or the connect timeout elapses. The session reconnects automatically and
// resubscribes on reconnect.
func Dial(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("bus: broker URL is required")
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.URL).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetKeepAlive(defaultKeepAlive).
		SetPingTimeout(defaultPingTimeout).
		SetConnectTimeout(defaultConnectTimeout).
		SetAutoReconnect(true).
		SetResumeSubs(true).
		SetOnConnectHandler(func(mqtt.Client) {
			logging.Info("connected to broker", zap.String("url", cfg.URL))
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logging.Warn("broker connection lost", zap.Error(err))
		})

	m := mqtt.NewClient(opts)
	token := m.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("bus: connect to %s timed out", cfg.URL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("bus: connect to %s: %w", cfg.URL, err)
	}

	return &Client{m: m}, nil
}

// Subscribe registers h for every message arriving on topic. The topic may
// contain MQTT wildcards.
func (c *Client) Subscribe(topic string, h Handler) error {
	token := c.m.Subscribe(topic, qosAtLeastOnce, func(_ mqtt.Client, msg mqtt.Message) {
		h(msg.Topic(), msg.Payload())
	})
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("bus: subscribe %s: %w", topic, err)
	}
	logging.Debug("subscribed", zap.String("topic", topic))
	return nil
}

// Unsubscribe removes subscriptions for the given topics.
func (c *Client) Unsubscribe(topics ...string) error {
	token := c.m.Unsubscribe(topics...)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("bus: unsubscribe: %w", err)
	}
	return nil
}

// Publish sends payload to topic and waits for broker acknowledgement or
// context cancellation.
func (c *Client) Publish(ctx context.Context, topic string, payload []byte) error {
	token := c.m.Publish(topic, qosAtLeastOnce, false, payload)
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("bus: publish to %s: %w", topic, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disconnects from the broker, allowing a short drain for in-flight
// messages.
func (c *Client) Close() {
	c.m.Disconnect(250)
}
