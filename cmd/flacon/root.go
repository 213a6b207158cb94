package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flacon",
	Short: "Flacon generates parametric bottle models",
	Long:  `Flacon turns a small set of named parameters into a solid 3-D bottle model and exports it to STEP, STL and BREP.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("kernel-cmd", "", "Command starting a geometry kernel worker (default: built-in approximate kernel)")
}
