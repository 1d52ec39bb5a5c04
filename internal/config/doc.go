// Package config manages the persisted fcubridge configuration.
//
// The registry is a YAML file in the OS config directory holding the
// message-bus broker settings and one entry per fan coil unit, keyed by the
// device's normalized address. Location, protocol prefix and application
// name are stored per device because the protocol uses them to form topic
// names; the core treats them as opaque strings.
package config
