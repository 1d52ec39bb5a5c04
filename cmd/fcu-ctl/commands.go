package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/yipfcu/fcubridge/internal/bus"
	"github.com/yipfcu/fcubridge/internal/climate"
	"github.com/yipfcu/fcubridge/internal/config"
	"github.com/yipfcu/fcubridge/internal/controller"
	"github.com/yipfcu/fcubridge/internal/logging"
	"github.com/yipfcu/fcubridge/internal/protocol"
	"github.com/yipfcu/fcubridge/internal/topics"
)

const commandTimeout = 15 * time.Second

// Device command flags
var (
	deviceName string
	deviceAddr string
	brokerURL  string
	username   string
	password   string
	logLevel   string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&deviceName, "name", "", "Configured device name")
	rootCmd.PersistentFlags().StringVar(&deviceAddr, "address", "", "Device MAC address (overrides --name)")
	rootCmd.PersistentFlags().StringVar(&brokerURL, "broker", "", "MQTT broker URL (overrides configuration)")
	rootCmd.PersistentFlags().StringVar(&username, "username", "", "MQTT username (overrides configuration)")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "MQTT password (overrides configuration)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(onCmd)
	rootCmd.AddCommand(offCmd)
	rootCmd.AddCommand(modeCmd)
	rootCmd.AddCommand(tempCmd)
	rootCmd.AddCommand(fanCmd)
	rootCmd.AddCommand(swingCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(deviceCmd)
}

var onCmd = &cobra.Command{
	Use:   "on",
	Short: "Turn the unit on",
	Example: `  fcu-ctl on --name Y165
  fcu-ctl on --address 60:01:94:65:7C:39`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(func(ctx context.Context, ctrl *controller.Controller) error {
			return ctrl.TurnOn(ctx)
		})
	},
}

var offCmd = &cobra.Command{
	Use:   "off",
	Short: "Turn the unit off",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(func(ctx context.Context, ctrl *controller.Controller) error {
			return ctrl.TurnOff(ctx)
		})
	},
}

var modeCmd = &cobra.Command{
	Use:   "mode <off|cool|dry|fan_only>",
	Short: "Set the operating mode",
	Long: `Set the unit's operating mode.

Selecting any mode other than 'off' also powers the unit on. The power
command follows the mode change after a short settle interval required
by the unit's firmware, so this command takes slightly longer than the
others.`,
	Example: `  fcu-ctl mode cool --name Y165
  fcu-ctl mode fan_only --name Y165`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := climate.ParseHVACMode(args[0])
		if err != nil {
			return err
		}
		return withController(func(ctx context.Context, ctrl *controller.Controller) error {
			return ctrl.SetHVACMode(ctx, mode)
		})
	},
}

var tempCmd = &cobra.Command{
	Use:   "temp <celsius>",
	Short: "Set the target temperature",
	Long: `Set the target temperature in degrees Celsius.

The unit accepts half-degree steps between 16.0 and 30.0.`,
	Example: `  fcu-ctl temp 21.5 --name Y165`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid temperature %q: %w", args[0], err)
		}
		return withController(func(ctx context.Context, ctrl *controller.Controller) error {
			return ctrl.SetTemperature(ctx, t)
		})
	},
}

var fanCmd = &cobra.Command{
	Use:   "fan <speed>",
	Short: "Set the fan speed",
	Long: `Set the fan speed. Accepted values are 3 through 7 and AUTO.`,
	Example: `  fcu-ctl fan 5 --name Y165
  fcu-ctl fan AUTO --name Y165`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(func(ctx context.Context, ctrl *controller.Controller) error {
			return ctrl.SetFanMode(ctx, args[0])
		})
	},
}

var swingCmd = &cobra.Command{
	Use:   "swing <position>",
	Short: "Set the louver swing position",
	Long: `Set the louver position. Accepted values are 'SWEEP ON' for
continuous sweep, fixed positions 1 through 5, and AUTO.`,
	Example: `  fcu-ctl swing AUTO --name Y165
  fcu-ctl swing "SWEEP ON" --name Y165
  fcu-ctl swing 3 --name Y165`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(func(ctx context.Context, ctrl *controller.Controller) error {
			return ctrl.SetSwingMode(ctx, args[0])
		})
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode <frame>",
	Short: "Decode a raw frame offline",
	Long: `Decode a raw hex-text frame and print its fields. No broker
connection is made.`,
	Example: `  fcu-ctl decode '{600194657C390000010201010001EB}'`,
	Args:    cobra.ExactArgs(1),
	RunE:    runDecode,
}

func runDecode(cmd *cobra.Command, args []string) error {
	frame, err := protocol.Decode(args[0])
	if err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	fmt.Printf("Address:        %s\n", frame.Address)
	fmt.Printf("Function:       0x%02X\n", frame.Function)
	fmt.Printf("Start register: 0x%02X\n", frame.StartRegister)
	fmt.Printf("Register count: %d\n", frame.RegisterCount)
	fmt.Printf("Data bytes:     %d\n", frame.ByteCount)
	fmt.Printf("Checksum:       0x%02X\n", frame.Checksum)

	if register, value, ok := frame.WriteCommand(); ok {
		fmt.Printf("\nWrite command: register 0x%02X = 0x%02X\n", register, value)
	}

	if snap, ok := frame.Snapshot(); ok {
		state := climate.NewState()
		state.ApplySnapshot(snap)
		fmt.Println("\nStatus snapshot:")
		fmt.Printf("  Mode:         %s\n", state.Mode)
		fmt.Printf("  Target temp:  %.1f°C\n", state.TargetTemp)
		fmt.Printf("  Current temp: %.1f°C\n", state.CurrentTemp)
		fmt.Printf("  Fan:          %s\n", state.FanMode)
		fmt.Printf("  Swing:        %s\n", state.SwingMode)
	}

	return nil
}

// withController connects to the broker, runs fn against the selected
// device's controller, and disconnects.
func withController(fn func(context.Context, *controller.Controller) error) error {
	if err := logging.Initialize(logLevel); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	mac, meta, err := resolveDevice(reg)
	if err != nil {
		return err
	}

	client, err := bus.Dial(brokerConfig(reg))
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}
	defer client.Close()

	cmdTopic := topics.Command(meta.Location, meta.ProtocolPrefix, mac, meta.AppName)
	pub := controller.PublisherFunc(func(ctx context.Context, payload string) error {
		return client.Publish(ctx, cmdTopic, []byte(payload))
	})
	ctrl, err := controller.New(mac, pub)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if err := fn(ctx, ctrl); err != nil {
		return err
	}
	fmt.Printf("✓ Command sent to %s (%s)\n", meta.Name, mac)
	return nil
}

// resolveDevice picks the target device from --address, --name, or the
// sole registry entry.
func resolveDevice(reg *config.Registry) (string, *config.Device, error) {
	if deviceAddr != "" {
		mac, err := protocol.NormalizeAddress(deviceAddr)
		if err != nil {
			return "", nil, err
		}
		if dev := reg.GetDevice(mac); dev != nil {
			return mac, dev, nil
		}
		// Unconfigured address: use the default topic layout.
		dev := &config.Device{Name: mac}
		reg.SetDevice(mac, dev)
		return mac, dev, nil
	}

	if deviceName != "" {
		for mac, dev := range reg.Devices {
			if dev.Name == deviceName {
				return mac, dev, nil
			}
		}
		return "", nil, fmt.Errorf("no configured device named %q", deviceName)
	}

	if len(reg.Devices) == 1 {
		for mac, dev := range reg.Devices {
			return mac, dev, nil
		}
	}
	return "", nil, fmt.Errorf("specify a device with --name or --address (%d configured)", len(reg.Devices))
}

// brokerConfig merges flag overrides over the registry's broker settings.
func brokerConfig(reg *config.Registry) bus.Config {
	cfg := bus.Config{
		URL:      config.DefaultBrokerURL,
		ClientID: config.DefaultAppName + "-ctl",
	}
	if reg.Broker != nil {
		if reg.Broker.URL != "" {
			cfg.URL = reg.Broker.URL
		}
		cfg.Username = reg.Broker.Username
		cfg.Password = reg.Broker.Password
	}
	if brokerURL != "" {
		cfg.URL = brokerURL
	}
	if username != "" {
		cfg.Username = username
	}
	if password != "" {
		cfg.Password = password
	}
	return cfg
}

// Registry management commands

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Manage the device registry",
	Long: `Add, list, and remove devices in the configuration file shared
with fcu-bridge.`,
}

var (
	addName     string
	addLocation string
	addProtocol string
	addApp      string
)

var deviceAddCmd = &cobra.Command{
	Use:   "add <address>",
	Short: "Add or update a device",
	Long: `Add a device by MAC address. Separators (':' or '-') are accepted
and stripped. Topic segments default to the gateway firmware's
out-of-the-box values when not given.`,
	Example: `  fcu-ctl device add 60:01:94:65:7C:39 --device-name Y165
  fcu-ctl device add 600194657C39 --device-name lab --location west --protocol daikiniot`,
	Args: cobra.ExactArgs(1),
	RunE: runDeviceAdd,
}

var deviceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured devices",
	RunE:  runDeviceList,
}

var deviceRemoveCmd = &cobra.Command{
	Use:   "remove <address>",
	Short: "Remove a device",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeviceRemove,
}

func init() {
	deviceAddCmd.Flags().StringVar(&addName, "device-name", "", "User-friendly device name (defaults to the address)")
	deviceAddCmd.Flags().StringVar(&addLocation, "location", "", "Topic location segment")
	deviceAddCmd.Flags().StringVar(&addProtocol, "protocol", "", "Topic protocol segment")
	deviceAddCmd.Flags().StringVar(&addApp, "app", "", "Application identity for the command topic")

	deviceCmd.AddCommand(deviceAddCmd)
	deviceCmd.AddCommand(deviceListCmd)
	deviceCmd.AddCommand(deviceRemoveCmd)
}

func runDeviceAdd(cmd *cobra.Command, args []string) error {
	mac, err := protocol.NormalizeAddress(args[0])
	if err != nil {
		return err
	}

	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	name := addName
	if name == "" {
		name = mac
	}
	reg.SetDevice(mac, &config.Device{
		Name:           name,
		Location:       addLocation,
		ProtocolPrefix: addProtocol,
		AppName:        addApp,
	})

	if err := reg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	path, _ := config.GetConfigPath()
	fmt.Printf("✓ Device %s (%s) saved to %s\n", name, mac, path)
	return nil
}

func runDeviceList(cmd *cobra.Command, args []string) error {
	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if len(reg.Devices) == 0 {
		fmt.Println("No devices configured. Use 'fcu-ctl device add' to add one.")
		return nil
	}

	macs := make([]string, 0, len(reg.Devices))
	for mac := range reg.Devices {
		macs = append(macs, mac)
	}
	sort.Strings(macs)

	fmt.Printf("%d device(s):\n\n", len(macs))
	for _, mac := range macs {
		dev := reg.Devices[mac]
		fmt.Printf("  %s\n", dev.Name)
		fmt.Printf("    Address:  %s\n", mac)
		fmt.Printf("    Topics:   %s/%s (app %s)\n", dev.Location, dev.ProtocolPrefix, dev.AppName)
		fmt.Println()
	}
	return nil
}

func runDeviceRemove(cmd *cobra.Command, args []string) error {
	mac, err := protocol.NormalizeAddress(args[0])
	if err != nil {
		return err
	}

	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if !reg.RemoveDevice(mac) {
		return fmt.Errorf("device %s is not configured", mac)
	}
	if err := reg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Printf("✓ Device %s removed\n", mac)
	return nil
}
