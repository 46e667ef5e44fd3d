package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"finchat/cmd/finchat/chat"
	"finchat/cmd/finchat/config"
	"finchat/internal/logging"
)

var version = "0.3.0"

var (
	// Global flags
	serverURL string
	debug     bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "finchat",
	Short: "finchat - terminal chat client for your finance dashboard",
	Long: `finchat is a terminal client for the personal-finance dashboard's chat
backend. It connects over a WebSocket, keeps the session alive with
heartbeats and bounded reconnects, and renders the assistant's replies as
structured budget bars, transaction tables and spending charts.

Run without arguments to start the interactive chat.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractiveChat()
	},
}

// versionCmd prints build info
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the finchat version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("finchat %s\n", version)
	},
}

func runInteractiveChat() error {
	cfg, err := config.Load()
	if err != nil {
		// A broken config file falls back to defaults; say so and carry on.
		fmt.Fprintf(os.Stderr, "warning: config not loaded: %v\n", err)
	}
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}

	// The TUI owns the terminal; logs go to a file.
	workspace, _ := os.Getwd()
	if err := logging.Initialize(workspace, debug); err != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
	}
	defer logging.Close()

	m := chat.InitChat(cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run chat: %w", err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "backend WebSocket URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
