// Package mcp exposes the generation pipeline as an MCP server so agent
// hosts can produce bottle models as a tool call.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ateliers3d/flacon"
	"github.com/ateliers3d/flacon/pkg/domain"
)

// Generator defines the interface required by the MCP server.
type Generator interface {
	Generate(ctx context.Context, req flacon.Request) (*domain.GenerationResult, error)
}

// Server wraps the Generator and exposes it as an MCP Server.
type Server struct {
	generator Generator
	outputDir string
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(generator Generator, outputDir string) *Server {
	s := &Server{
		generator: generator,
		outputDir: outputDir,
		mcpServer: server.NewMCPServer("flacon-mcp", flacon.Version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	generateTool := mcp.NewTool("generate_bottle",
		mcp.WithDescription("Generate a parametric bottle model and export it to STEP/STL/BREP. Returns the result as JSON (file paths, bounding box, echoed parameters)."),
		mcp.WithString("model_id", mcp.Description("Identifier used for output file names (optional, generated when omitted)")),
		mcp.WithString("parameters", mcp.Required(), mcp.Description("JSON object with the bottle parameters, e.g. {\"neckDiameter\":20,\"bodyHeight\":150,\"bodyRadius\":40,\"wallThickness\":3,\"threadType\":\"M20x1.5\"}")),
	)
	s.mcpServer.AddTool(generateTool, s.handleGenerate)
}

func (s *Server) registerResources() {
	// EXPOSE: bottle://parameters
	s.mcpServer.AddResource(mcp.NewResource("bottle://parameters", "Bottle Parameter Reference",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		reference := map[string]any{
			"defaults": domain.DefaultParameters(),
			"formats":  []string{"step", "stl", "brep"},
			"units":    "millimetres, angles in degrees",
			"threadType": "metric spec M<major>x<pitch>, e.g. M20x1.5; " +
				"\"None\" or an unparsable value leaves the neck unthreaded",
		}
		jsonBytes, err := json.Marshal(reference)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal parameter reference: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "bottle://parameters",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func (s *Server) handleGenerate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	modelID, _ := args["model_id"].(string)
	if modelID == "" {
		modelID = "bottle-" + uuid.NewString()
	}

	params := map[string]any{}
	if paramsStr, ok := args["parameters"].(string); ok {
		if err := json.Unmarshal([]byte(paramsStr), &params); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid parameters JSON: %v", err)), nil
		}
	} else if paramsObj, ok := args["parameters"].(map[string]any); ok {
		params = paramsObj
	}

	result, err := s.generator.Generate(ctx, flacon.Request{
		ModelID:    modelID,
		OutputDir:  s.outputDir,
		Parameters: params,
	})
	if err != nil {
		jsonBytes, _ := json.Marshal(domain.Failure(err))
		return mcp.NewToolResultError(string(jsonBytes)), nil
	}

	jsonBytes, _ := json.Marshal(result)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
