package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ateliers3d/flacon"
	"github.com/ateliers3d/flacon/internal/logging"
	mcpAdapter "github.com/ateliers3d/flacon/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the generator as an MCP tool on stdio",
	Run: func(cmd *cobra.Command, args []string) {
		outputDir, _ := cmd.Flags().GetString("output-dir")

		// Stdout carries the MCP protocol; logs must stay on stderr.
		gen := flacon.New(kernelProvider(cmd),
			flacon.WithLogger(logging.New(slog.LevelWarn)),
		)

		srv := mcpAdapter.NewServer(gen, outputDir)
		if err := srv.ServeStdio(); err != nil {
			fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("output-dir", "output", "Directory for exported files")
}
