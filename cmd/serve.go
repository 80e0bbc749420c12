package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/pagecraft/internal/mcp"
)

var serveProject string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing page editing and export tools over a project JSON file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		srv, err := mcpserver.NewServer(serveProject, cfg.History.Limit, mcpserver.WithGenerator(newGenerator(cfg)))
		if err != nil {
			return fmt.Errorf("opening project: %w", err)
		}

		fmt.Fprintf(os.Stderr, "pagecraft MCP server started on stdio (project=%s)\n", serveProject)
		return srv.Serve()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveProject, "project", "site.json", "project file to edit (created on first edit)")
	rootCmd.AddCommand(serveCmd)
}
