package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/linkframe/internal/config"
	"github.com/muurk/linkframe/internal/ui"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	Long: `Create and inspect the linksim configuration file.

The file holds the framing tags, CRC generator, parity sentinels, medium
settings and logging options. Without --config it lives in the OS config
directory.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with default values",
	Example: `  linksim config init
  linksim config init --config ./linksim.yaml --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigInit(configPath, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active configuration",
	Long: `Print the configuration as linksim will use it: the file contents with
defaults filled in for anything the file leaves out.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runConfigShow(cfg, cmd.OutOrStdout())
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			var err error
			if path, err = config.GetConfigPath(); err != nil {
				return err
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Overwrite an existing file without asking")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(path string, in io.Reader, out io.Writer) error {
	if path == "" {
		var err error
		if path, err = config.GetConfigPath(); err != nil {
			return err
		}
	}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if !configForce && !ui.ConfirmOverwrite(in, out, path) {
			return fmt.Errorf("not overwriting %s", path)
		}
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("failed to check %s: %w", path, err)
	}

	if err := config.Default().Save(path); err != nil {
		return err
	}
	ui.NewPrinter(out, plainOut).PrintSuccess("Configuration written", []ui.Param{
		{Key: "Path", Value: path},
	})
	return nil
}

func runConfigShow(cfg *config.Config, out io.Writer) error {
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	return ui.NewPrinter(out, plainOut).Render(string(data))
}
