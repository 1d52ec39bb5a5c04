package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	if !strings.Contains(configDir, "fcubridge") {
		t.Errorf("GetConfigDir() = %v, should contain 'fcubridge'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin", "linux":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("Unix config dir should contain '.config', got: %v", configDir)
		}
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}
	if reg.Devices == nil {
		t.Error("NewRegistry().Devices should not be nil")
	}
	if reg.Broker == nil {
		t.Fatal("NewRegistry().Broker should not be nil")
	}
	if reg.Broker.URL != DefaultBrokerURL {
		t.Errorf("NewRegistry().Broker.URL = %v, want %v", reg.Broker.URL, DefaultBrokerURL)
	}
}

func TestSetDeviceDefaults(t *testing.T) {
	reg := NewRegistry()
	reg.SetDevice("600194657C39", &Device{Name: "Y165"})

	device := reg.GetDevice("600194657C39")
	if device == nil {
		t.Fatal("GetDevice() returned nil after SetDevice()")
	}
	if device.Location != DefaultLocation {
		t.Errorf("Location = %v, want %v", device.Location, DefaultLocation)
	}
	if device.ProtocolPrefix != DefaultProtocolPrefix {
		t.Errorf("ProtocolPrefix = %v, want %v", device.ProtocolPrefix, DefaultProtocolPrefix)
	}
	if device.AppName != DefaultAppName {
		t.Errorf("AppName = %v, want %v", device.AppName, DefaultAppName)
	}
}

func TestSetDevicePreservesExplicitValues(t *testing.T) {
	reg := NewRegistry()
	reg.SetDevice("600194657C39", &Device{
		Name:           "Lobby FCU",
		Location:       "lobby",
		ProtocolPrefix: "fcuproto",
		AppName:        "custom-app",
	})

	device := reg.GetDevice("600194657C39")
	if device.Location != "lobby" || device.ProtocolPrefix != "fcuproto" || device.AppName != "custom-app" {
		t.Errorf("SetDevice() overwrote explicit values: %+v", device)
	}
}

func TestRemoveDevice(t *testing.T) {
	reg := NewRegistry()
	reg.SetDevice("600194657C39", &Device{Name: "Y165"})

	if !reg.RemoveDevice("600194657C39") {
		t.Error("RemoveDevice() = false for existing device")
	}
	if reg.RemoveDevice("600194657C39") {
		t.Error("RemoveDevice() = true for already-removed device")
	}
	if reg.GetDevice("600194657C39") != nil {
		t.Error("GetDevice() returned entry after removal")
	}
}

func TestRegistryYAMLRoundTrip(t *testing.T) {
	reg := NewRegistry()
	reg.Broker.URL = "tcp://broker.example:1883"
	reg.Broker.Username = "fcu"
	reg.SetDevice("600194657C39", &Device{Name: "Y165"})

	data, err := yaml.Marshal(reg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var loaded Registry
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if loaded.Version != 1 {
		t.Errorf("round-trip version = %d, want 1", loaded.Version)
	}
	if loaded.Broker == nil || loaded.Broker.URL != "tcp://broker.example:1883" {
		t.Errorf("round-trip broker = %+v", loaded.Broker)
	}
	device := loaded.GetDevice("600194657C39")
	if device == nil || device.Name != "Y165" || device.Location != DefaultLocation {
		t.Errorf("round-trip device = %+v", device)
	}
}

func TestSaveAndReload(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on XDG_CONFIG_HOME")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	reg, err := ReloadRegistry()
	if err != nil {
		t.Fatalf("ReloadRegistry() error = %v", err)
	}
	reg.SetDevice("600194657C39", &Device{Name: "Y165"})
	if err := reg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if _, err := os.Stat(configPath); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	loaded, err := ReloadRegistry()
	if err != nil {
		t.Fatalf("ReloadRegistry() error = %v", err)
	}
	device := loaded.GetDevice("600194657C39")
	if device == nil || device.Name != "Y165" {
		t.Errorf("reloaded device = %+v, want name Y165", device)
	}
}
