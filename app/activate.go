package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/daemon"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(activateCmd)
}

var activateCmd = &cobra.Command{
	Use:     "activate <plugin>",
	Short:   "Run the activation of a configured plugin",
	Long:    "Grants the plugin capabilities to the administrator role. Running it again changes nothing.",
	Args:    cobra.ExactArgs(1),
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := daemon.Activate(cmd.Context(), &cfg, args[0]); err != nil {
			return err
		}

		log.Info().Str("plugin", args[0]).Msg("plugin activated")

		return nil
	},
}
