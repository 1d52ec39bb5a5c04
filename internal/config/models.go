package config

// Registry represents the entire fcubridge configuration file.
type Registry struct {
	Version int                `yaml:"version"`
	Broker  *Broker            `yaml:"broker,omitempty"`
	Devices map[string]*Device `yaml:"devices,omitempty"` // Keyed by normalized device address
}

// Broker holds the MQTT broker connection settings shared by all devices.
type Broker struct {
	URL      string `yaml:"url"`                 // e.g. "tcp://broker.local:1883"
	ClientID string `yaml:"client_id,omitempty"` // Defaults to the application name
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// Device represents one configured fan coil unit.
type Device struct {
	Name           string `yaml:"name"`            // User-friendly name (e.g. "Y165")
	Location       string `yaml:"location"`        // Topic location segment (e.g. "trainingcenter")
	ProtocolPrefix string `yaml:"protocol_prefix"` // Topic protocol segment (e.g. "daikiniot")
	AppName        string `yaml:"app_name"`        // Application identity used on the command topic
}

// Defaults used when adding devices without explicit values. They match the
// upstream gateway firmware's out-of-the-box topic configuration.
const (
	DefaultLocation       = "trainingcenter"
	DefaultProtocolPrefix = "daikiniot"
	DefaultBrokerURL      = "tcp://127.0.0.1:1883"
	DefaultAppName        = "fcubridge"
)

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Broker: &Broker{
			URL:      DefaultBrokerURL,
			ClientID: DefaultAppName,
		},
		Devices: make(map[string]*Device),
	}
}

// GetDevice retrieves a device entry by normalized address.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(mac string) *Device {
	return r.Devices[mac]
}

// SetDevice adds or replaces a device entry, filling empty topic fields
// with the defaults.
func (r *Registry) SetDevice(mac string, device *Device) {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}
	if device.Location == "" {
		device.Location = DefaultLocation
	}
	if device.ProtocolPrefix == "" {
		device.ProtocolPrefix = DefaultProtocolPrefix
	}
	if device.AppName == "" {
		device.AppName = DefaultAppName
	}
	r.Devices[mac] = device
}

// RemoveDevice deletes a device entry. Returns true if it existed.
func (r *Registry) RemoveDevice(mac string) bool {
	if _, ok := r.Devices[mac]; !ok {
		return false
	}
	delete(r.Devices, mac)
	return true
}
