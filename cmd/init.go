package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pagecraft/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize pagecraft configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure storage, the server port and undo depth, and writes a .pagecraft.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
