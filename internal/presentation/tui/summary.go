// Package tui renders human-facing output for the CLI. The JSON result on
// stdout stays machine-readable; everything here is optional sugar.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/ateliers3d/flacon/pkg/domain"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// SummaryMarkdown builds a markdown report of one generation result.
func SummaryMarkdown(result *domain.GenerationResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Model %s\n\n", result.ModelID)
	if !result.Success {
		fmt.Fprintf(&b, "**Generation failed**: %s\n", result.Error)
		return b.String()
	}

	b.WriteString("## Files\n\n")
	writeFile := func(format string, path *string) {
		if path != nil {
			fmt.Fprintf(&b, "- **%s**: `%s`\n", format, *path)
		} else {
			fmt.Fprintf(&b, "- **%s**: export failed\n", format)
		}
	}
	if result.Files != nil {
		writeFile("STEP", result.Files.Step)
		writeFile("STL", result.Files.Stl)
		writeFile("BREP", result.Files.Brep)
	}

	if result.Preview != nil {
		box := result.Preview.BoundingBox
		b.WriteString("\n## Bounding box\n\n")
		fmt.Fprintf(&b, "- dimensions: %.1f x %.1f x %.1f mm\n",
			box.Dimensions[0], box.Dimensions[1], box.Dimensions[2])
		fmt.Fprintf(&b, "- center: (%.1f, %.1f, %.1f)\n",
			box.Center[0], box.Center[1], box.Center[2])
	}

	if p := result.Parameters; p != nil {
		b.WriteString("\n## Parameters\n\n")
		fmt.Fprintf(&b, "- neck %.1fmm, body %.1f x %.1fmm, wall %.1fmm\n",
			p.NeckDiameter, p.BodyHeight, p.BodyRadius, p.WallThickness)
		if p.ThreadType != "" && p.ThreadType != "None" {
			fmt.Fprintf(&b, "- thread: %s\n", p.ThreadType)
		}
		if p.RibsCount > 0 {
			fmt.Fprintf(&b, "- ribs: %d x %.1fmm\n", p.RibsCount, p.RibThickness)
		}
	}

	return b.String()
}
