// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/config"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/logger"
)

var (
	configPath string // Path to the configuration directory
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gomenu-admin",
	Short: "GoMenu-Admin hosts menu plugins for restaurants and practices",
	Long: `GoMenu-Admin hosts menu plugins: every plugin adds a menu item content type,
a public menu archive and a settings page for the archive title and description.`,
	Args: cobra.OnlyValidArgs,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "directory holding main.toml")
}

// loadConfig reads the configuration and initializes the logger.
func loadConfig(_ *cobra.Command, _ []string) error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	return logger.Init(cfg.Log)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
