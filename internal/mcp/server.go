// Package mcp provides Model Context Protocol server functionality.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vehiclegraph/vehiclegraph/domain/vehicle"
)

// VehicleGetter resolves a vehicle and the requested enrichments.
type VehicleGetter interface {
	Get(ctx context.Context, fin int64, fields ...vehicle.Field) (vehicle.Record, error)
}

// Server wraps the MCP server with vehicle tools.
type Server struct {
	mcpServer *server.MCPServer
	vehicles  VehicleGetter
	version   string
	logger    *slog.Logger
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(vehicles VehicleGetter, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		vehicles: vehicles,
		version:  version,
		logger:   logger,
	}

	mcpServer := server.NewMCPServer(
		"vehiclegraph",
		version,
		server.WithToolCapabilities(true),
	)

	s.registerTools(mcpServer)

	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	vehicleTool := mcp.NewTool("get_vehicle_by_fin",
		mcp.WithDescription("Get a vehicle by its fin. Enrichments not generated yet are generated on first access, which takes a moment."),
		mcp.WithNumber("fin",
			mcp.Required(),
			mcp.Description("The numeric vehicle identifier"),
		),
		mcp.WithString("fields",
			mcp.Description("Comma-separated enrichments to resolve: texts, codes, pics (default: all)"),
		),
	)
	mcpServer.AddTool(vehicleTool, s.handleGetVehicle)

	versionTool := mcp.NewTool("get_version",
		mcp.WithDescription("Get the vehiclegraph server version"),
	)
	mcpServer.AddTool(versionTool, s.handleGetVersion)
}

type vehicleResult struct {
	Fin   int64   `json:"fin"`
	Texts *string `json:"texts,omitempty"`
	Codes *string `json:"codes,omitempty"`
	Pics  *string `json:"pics,omitempty"`
}

func newVehicleResult(r vehicle.Record) vehicleResult {
	result := vehicleResult{Fin: r.Fin()}
	if v, ok := r.Value(vehicle.FieldTexts); ok {
		result.Texts = &v
	}
	if v, ok := r.Value(vehicle.FieldCodes); ok {
		result.Codes = &v
	}
	if v, ok := r.Value(vehicle.FieldPics); ok {
		result.Pics = &v
	}
	return result
}

func (s *Server) handleGetVehicle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fin, err := request.RequireInt("fin")
	if err != nil {
		return mcp.NewToolResultError("fin is required"), nil
	}

	fields, err := vehicle.ParseFields(request.GetString("fields", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	record, err := s.vehicles.Get(ctx, int64(fin), fields...)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get vehicle", slog.Int("fin", fin), slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("failed to get vehicle: %v", err)), nil
	}

	jsonBytes, err := json.Marshal(newVehicleResult(record))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGetVersion(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.version), nil
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio runs the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
