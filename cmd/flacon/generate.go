package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ateliers3d/flacon"
	"github.com/ateliers3d/flacon/internal/logging"
	"github.com/ateliers3d/flacon/internal/presentation/tui"
	"github.com/ateliers3d/flacon/pkg/adapters/approx"
	"github.com/ateliers3d/flacon/pkg/adapters/occtbridge"
	"github.com/ateliers3d/flacon/pkg/domain"
	"github.com/ateliers3d/flacon/pkg/ports"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one bottle model and print the result as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		paramsJSON, _ := cmd.Flags().GetString("params")
		outputDir, _ := cmd.Flags().GetString("output-dir")
		modelID, _ := cmd.Flags().GetString("model-id")
		deflection, _ := cmd.Flags().GetFloat64("deflection")
		pretty, _ := cmd.Flags().GetBool("pretty")
		debug, _ := cmd.Flags().GetBool("debug")

		level := slog.LevelWarn
		if debug {
			level = slog.LevelDebug
		}
		logger := logging.New(level)

		var params map[string]any
		if err := json.Unmarshal([]byte(paramsJSON), &params); err != nil {
			emit(domain.Failure(fmt.Errorf("invalid JSON parameters: %w", err)))
			os.Exit(1)
		}

		gen := flacon.New(kernelProvider(cmd),
			flacon.WithLogger(logger),
			flacon.WithDeflection(deflection),
		)

		result, err := gen.Generate(cmd.Context(), flacon.Request{
			ModelID:    modelID,
			OutputDir:  outputDir,
			Parameters: params,
		})
		if err != nil {
			emit(domain.Failure(err))
			os.Exit(1)
		}

		if pretty && term.IsTerminal(int(os.Stdout.Fd())) {
			tui.PrintBanner()
			render := tui.NewRenderer()
			if out, rerr := render(tui.SummaryMarkdown(result)); rerr == nil {
				fmt.Print(out)
				return
			}
		}
		emit(result)
	},
}

// kernelProvider picks the kernel backend from the persistent flag.
func kernelProvider(cmd *cobra.Command) ports.KernelProvider {
	kernelCmd, _ := cmd.Flags().GetString("kernel-cmd")
	if kernelCmd == "" {
		return approx.NewProvider()
	}
	parts := strings.Fields(kernelCmd)
	return occtbridge.NewProvider(parts[0], parts[1:]...)
}

func emit(v any) {
	data, _ := json.Marshal(v)
	fmt.Println(string(data))
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().String("params", "{}", "JSON parameter object")
	generateCmd.Flags().String("output-dir", "output", "Directory for exported files")
	generateCmd.Flags().String("model-id", "", "Model ID used for file names (required)")
	generateCmd.Flags().Float64("deflection", flacon.DefaultDeflection, "STL meshing deflection in mm")
	generateCmd.Flags().Bool("pretty", false, "Render a human-readable summary instead of JSON when on a terminal")
	_ = generateCmd.MarkFlagRequired("model-id")
}
