// Linksim simulates a byte-oriented data link between two hosts.
//
// It frames data with start, stop and escape tags plus an error-detecting
// trailer (CRC or parity), sends it across a simulated medium that may
// fragment the stream and flip bits, and reports whether the receiver
// recovered the original bytes.
//
// Usage:
//
//	linksim [command] [flags]
//
// See 'linksim --help' for available commands.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/linkframe/internal/config"
	"github.com/muurk/linkframe/internal/logging"
	"github.com/muurk/linkframe/internal/version"
)

func main() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logging.Sync()
		os.Exit(1)
	}
}

// Global flags
var (
	configPath string
	logLevel   string
	logFile    string
	plainOut   bool
)

var rootCmd = &cobra.Command{
	Use:   "linksim",
	Short: "Data link framing simulator",
	Long: `Simulate a byte-oriented data link between two hosts.

Data is split into chunks, each chunk is framed with start/stop tags, escape
bytes and an error-detecting trailer, and the frames cross a simulated medium
that may fragment the byte stream and flip bits. The receiver resynchronizes
on start tags, drops corrupt frames and reassembles what survives.

Settings come from a YAML configuration file (see 'linksim config path');
flags override the file.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Example: `  # Send a file across a noisy medium using CRC framing
  linksim simulate notes.txt --medium lownoise --layer crc

  # Frame a file and decode it again
  linksim encode notes.txt -o notes.frames
  linksim decode notes.frames -o notes.out

  # Write a default configuration file
  linksim config init`,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (default: OS config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $"+logging.LogLevelEnvVar+" or silent)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write JSON logs to this rotating file")
	rootCmd.PersistentFlags().BoolVar(&plainOut, "plain", false, "Plain text output without colors or borders")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "linksim %s\n", version.Full())
	},
}

// loadConfig reads the configuration file, applies the global flag
// overrides and starts logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if err := logging.InitializeWithOptions(cfg.LogOptions()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readInput reads a whole file, or stdin for "-".
func readInput(path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
