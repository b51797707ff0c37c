package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blockstage/internal/platform/tui"
	"github.com/vovakirdan/tui-blockstage/internal/project"
)

var (
	flagSSHHost     string
	flagSSHPort     int
	flagHostKey     string
	flagProject     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the blockstage SSH server",
	Long: `Start an SSH server that gives every connection its own private stage.

Sessions start from --project when given, otherwise with a single sprite.
Runs from every session are recorded to the server's history database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise uses server.host_key from the config (generated if missing)

Examples:
  blockstage serve                          # Listen on the configured port
  blockstage serve --port 2222              # Listen on port 2222
  blockstage serve --project examples/swap.yaml

Users can connect with:
  ssh localhost -p 23235`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHHost, "host", "", "SSH listen host (default from config)")
	serveCmd.Flags().IntVar(&flagSSHPort, "port", 0, "SSH listen port (default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file")
	serveCmd.Flags().StringVar(&flagProject, "project", "", "Project every session starts from")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	if flagSSHHost != "" {
		cfg.Server.SSHHost = flagSSHHost
	}
	if flagSSHPort > 0 {
		cfg.Server.SSHPort = flagSSHPort
	}
	if flagHostKey != "" {
		cfg.Server.HostKey = flagHostKey
	}

	var file *project.File
	if flagProject != "" {
		file = loadProject(flagProject)
	}

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Config:      cfg,
		Project:     file,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting blockstage SSH server on %s\n", server.Addr())
	fmt.Println("Connect with: ssh localhost -p " + strconv.Itoa(cfg.Server.SSHPort))
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
