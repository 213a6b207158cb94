package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ateliers3d/flacon"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the flacon version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("flacon version %s\n", flacon.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
