// Fcu-bridge hosts configured fan coil units on MQTT.
//
// It connects to the broker, listens for telemetry frames from each
// configured device, and exposes the decoded climate state over a local
// HTTP/WebSocket status server.
//
// Usage:
//
//	fcu-bridge serve [flags]
//
// See 'fcu-bridge serve --help' for available options.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yipfcu/fcubridge/internal/bridge"
	"github.com/yipfcu/fcubridge/internal/bus"
	"github.com/yipfcu/fcubridge/internal/config"
	"github.com/yipfcu/fcubridge/internal/logging"
	"github.com/yipfcu/fcubridge/internal/server"
	"github.com/yipfcu/fcubridge/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fcu-bridge",
	Short: "Fan coil unit MQTT bridge",
	Long: `A bridge that hosts configured fan coil units over MQTT.

The bridge subscribes to each device's telemetry topics, decodes the
hex-text status frames into climate state, and serves the live state
over a local HTTP/WebSocket endpoint.

Note: to configure devices and send one-shot commands, use the separate
'fcu-ctl' utility.`,
	Version: version.Version,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	brokerURL  string
	username   string
	password   string
	clientID   string
	listenAddr string
	logLevel   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bridge",
	Long: `Connect to the MQTT broker and host every configured device.

Broker settings come from the configuration file (see 'fcu-ctl device')
and can be overridden with flags. The status server listens on --listen
and serves GET /devices plus a WebSocket update stream on GET /ws.`,
	Example: `  # Run with the configured broker
  fcu-bridge serve

  # Override the broker and turn on debug logging
  fcu-bridge serve --broker tcp://10.0.0.5:1883 --log-level debug

  # Serve device status on a different port
  fcu-bridge serve --listen 127.0.0.1:8321`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&brokerURL, "broker", "", "MQTT broker URL (overrides configuration)")
	serveCmd.Flags().StringVar(&username, "username", "", "MQTT username (overrides configuration)")
	serveCmd.Flags().StringVar(&password, "password", "", "MQTT password (overrides configuration)")
	serveCmd.Flags().StringVar(&clientID, "client-id", "", "MQTT client identifier (overrides configuration)")
	serveCmd.Flags().StringVar(&listenAddr, "listen", "127.0.0.1:8320", "Status server listen address (empty = disabled)")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if len(reg.Devices) == 0 {
		return fmt.Errorf("no devices configured; add one with 'fcu-ctl device add'")
	}

	busCfg := brokerConfig(reg)
	client, err := bus.Dial(busCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to broker %s: %w", busCfg.URL, err)
	}
	defer client.Close()

	br, err := bridge.New(client, reg)
	if err != nil {
		return fmt.Errorf("failed to create bridge: %w", err)
	}
	if err := br.Start(); err != nil {
		return fmt.Errorf("failed to start bridge: %w", err)
	}
	defer br.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	if listenAddr != "" {
		srv := server.New(listenAddr, br)
		g.Go(func() error { return srv.Run(ctx) })
	}
	g.Go(func() error {
		<-ctx.Done()
		logging.Info("shutting down")
		return nil
	})
	return g.Wait()
}

// brokerConfig merges flag overrides over the registry's broker settings.
func brokerConfig(reg *config.Registry) bus.Config {
	cfg := bus.Config{
		URL:      config.DefaultBrokerURL,
		ClientID: config.DefaultAppName,
	}
	if reg.Broker != nil {
		if reg.Broker.URL != "" {
			cfg.URL = reg.Broker.URL
		}
		if reg.Broker.ClientID != "" {
			cfg.ClientID = reg.Broker.ClientID
		}
		cfg.Username = reg.Broker.Username
		cfg.Password = reg.Broker.Password
	}
	if brokerURL != "" {
		cfg.URL = brokerURL
	}
	if clientID != "" {
		cfg.ClientID = clientID
	}
	if username != "" {
		cfg.Username = username
	}
	if password != "" {
		cfg.Password = password
	}
	return cfg
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fcu-bridge %s (commit: %s)\n", version.Version, version.Commit)
	},
}
