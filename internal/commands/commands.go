// Package commands is the dashboard CLI.
package commands

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
	apiURL     string
	wsURL      string
	stateDir   string
}

var root = &rootOptions{}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Admin console for the SmartWaste collection system.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&root.configFile, "config", "", "Config file (default ./.smartwaste.yaml or ~/.smartwaste.yaml).")
	flags.StringVar(&root.apiURL, "api-url", "", "Base URL of the SmartWaste API.")
	flags.StringVar(&root.wsURL, "ws-url", "", "Bin-status WebSocket URL (derived from --api-url when empty).")
	flags.StringVar(&root.stateDir, "state-dir", "", "Directory holding the saved session.")

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addLogin(topLevel)
	addLogout(topLevel)
	addGet(topLevel)
	addVersion(topLevel)
}

func loadConfig(cmd *cobra.Command) (Config, error) {
	return LoadConfig(cmd.Flags(), root.configFile)
}
