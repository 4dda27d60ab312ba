package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/holdtalk/holdtalk/internal/bus"
	"github.com/holdtalk/holdtalk/internal/config"
	"github.com/holdtalk/holdtalk/internal/daemon"
	"github.com/holdtalk/holdtalk/internal/deps"
	"github.com/holdtalk/holdtalk/internal/server"
	"github.com/holdtalk/holdtalk/internal/tui"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

var configPath string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "holdtalk",
		Short:        "Push-to-talk dictation: hold a key, speak, release to paste",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/holdtalk/config.toml)")

	rootCmd.AddCommand(
		runCmd(),
		serveCmd(),
		statusCmd(),
		versionCmd(),
		stopCmd(),
		configureCmd(),
		doctorCmd(),
		modelCmd(),
	)
	return rootCmd
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

func loadConfig() (*config.Config, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}
	return config.LoadFile(path)
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the dictation client (global hotkeys)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			d, err := daemon.FromConfig(cfg)
			if err != nil {
				return fmt.Errorf("failed to create daemon: %w", err)
			}
			return d.Run(context.Background())
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the transcription server",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveConfigPath()
			if err != nil {
				return err
			}
			m, err := config.NewManager(path)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg := m.GetConfig()
			if err := cfg.ValidateServer(); err != nil {
				return fmt.Errorf("invalid server config: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := m.StartWatching(ctx); err != nil {
				return fmt.Errorf("failed to watch config: %w", err)
			}
			defer m.Stop()

			// addr and path are bound at startup; backend settings follow reloads
			srv := server.New(cfg.Server.Path, m.Settings)
			return server.ListenAndServe(ctx, cfg.Server.Addr, srv.Handler())
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get current session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand(bus.CmdStatus)
			if err != nil {
				return fmt.Errorf("failed to get status: %w", err)
			}
			state, err := bus.ParseStatus(resp)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), state)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Get protocol version",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand(bus.CmdVersion)
			if err != nil {
				return fmt.Errorf("failed to get version: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), resp)
			return nil
		},
	}
}

func stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running client",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand(bus.CmdQuit)
			if err != nil {
				return fmt.Errorf("failed to stop daemon: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), resp)
			return nil
		},
	}
}

func configureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactive configuration setup",
		Long: `Interactive configuration editor for holdtalk.
Covers the capture command, transcription endpoint, hotkeys,
paste shortcut and backends, notifications and the server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure()
		},
	}
}

func runConfigure() error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	result, err := tui.Run(cfg)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if result.Cancelled {
		fmt.Println("Configuration cancelled.")
		return nil
	}

	if err := config.Save(path, result.Config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println(tui.StyleSuccess.Render("Configuration saved successfully!"))
	fmt.Println()
	fmt.Println("Next Steps:")
	fmt.Println("1. Start the server: holdtalk serve")
	fmt.Println("2. Start the client: holdtalk run")
	fmt.Printf("3. Hold %s and speak\n", result.Config.Hotkeys.Trigger)
	fmt.Println()
	fmt.Printf("Config file location: %s\n", path)
	return nil
}

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools holdtalk depends on",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			var capture string
			if len(cfg.Recording.Command) > 0 {
				capture = cfg.Recording.Command[0]
			}
			reqs := deps.ClientRequirements(capture, cfg.Injection.Backends,
				cfg.Notifications.Enabled && cfg.Notifications.Type == "desktop")
			reqs = append(reqs, deps.ServerRequirements(cfg.Server.Backend, cfg.Server.WhisperBinary)...)

			results := deps.Run(reqs, nil)
			fmt.Fprint(cmd.OutOrStdout(), deps.Render(results))
			if !deps.Healthy(results) {
				return fmt.Errorf("missing required dependencies")
			}
			return nil
		},
	}
}
