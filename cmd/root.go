package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pagecraft/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pagecraft",
	Short: "Visual website builder server, MCP tools and static site exporter",
	Long: `Pagecraft edits multi-page websites built from typed component trees,
with undo/redo and cross-page navbar/footer sync, and exports them as
static HTML sites. It runs as an HTTP/WebSocket editing server, as an
MCP server for AI agents, or as a command-line exporter.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
