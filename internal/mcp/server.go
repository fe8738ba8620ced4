// Package mcp exposes the binary-inspection tools over the Model Context
// Protocol. The server registers a fixed set of tools at startup and routes
// tool calls to their handlers by name; every failure is converted to a
// human-readable text response so nothing terminates the serving loop except
// the transport closing.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/isalwa-labs/ghidra-mcp/internal/binutil"
)

// Config contains configuration for the MCP server.
type Config struct {
	// ServerName is the name advertised during MCP initialization.
	ServerName string

	// Version is the server version advertised during MCP initialization.
	Version string

	// Disabled controls whether the MCP server refuses to start.
	Disabled bool

	// EnabledTools optionally restricts which tools are available.
	// If empty, all tools are enabled.
	EnabledTools []string

	// AuditEnabled logs every tool invocation with its arguments.
	AuditEnabled bool
}

// executeFunc runs one tool's logic from JSON-encoded arguments and returns
// the response text. Errors are wrapped into the "Error executing" envelope
// by the dispatch layer.
type executeFunc func(ctx context.Context, argumentsJSON string) (string, error)

// registeredTool is one registry entry: the wire descriptor plus the
// execution function dispatch routes to.
type registeredTool struct {
	tool    mcp.Tool
	execute executeFunc
}

// Server wraps the MCP protocol server and the tool registry.
type Server struct {
	mcpServer  *server.MCPServer
	inspector  *binutil.Inspector
	config     Config
	logger     zerolog.Logger
	instanceID string
	startedAt  time.Time

	// tools maps tool names to registry entries; toolOrder preserves
	// registration order so listings are stable across calls.
	tools     map[string]registeredTool
	toolOrder []string
}

// New creates a new MCP server instance with all tools registered.
func New(inspector *binutil.Inspector, config Config, logger zerolog.Logger) (*Server, error) {
	if config.Disabled {
		return nil, fmt.Errorf("MCP server is disabled in configuration")
	}

	s := &Server{
		mcpServer: server.NewMCPServer(
			config.ServerName,
			config.Version,
			server.WithToolCapabilities(true),
		),
		inspector:  inspector,
		config:     config,
		logger:     logger,
		instanceID: uuid.NewString(),
		startedAt:  time.Now(),
		tools:      make(map[string]registeredTool),
	}

	s.registerTools()

	logger.Info().
		Str("instance_id", s.instanceID).
		Int("tool_count", len(s.toolOrder)).
		Msg("MCP server initialized")

	return s, nil
}

// registerTools registers all tools in their advertised order.
func (s *Server) registerTools() {
	s.registerAnalyzeBinaryTool()
	s.registerExtractStringsTool()
	s.registerFileInfoTool()
	s.registerCheckSecurityTool()
}

// ServeStdio serves MCP over stdin/stdout, blocking until the transport
// closes. One request is processed at a time.
func (s *Server) ServeStdio() error {
	s.logger.Info().Msg("Starting MCP server on stdio")
	return server.ServeStdio(s.mcpServer)
}

// Close stops the MCP server and releases resources.
func (s *Server) Close() error {
	s.logger.Info().
		Str("uptime", time.Since(s.startedAt).String()).
		Msg("Stopping MCP server")
	return nil
}

// ExecuteTool dispatches a tool call by name with JSON-encoded arguments and
// returns the response text. It never fails: an unknown name and any handler
// error are reported in the returned text, mirroring what an MCP client
// receives over the wire.
func (s *Server) ExecuteTool(ctx context.Context, toolName string, argumentsJSON string) string {
	entry, ok := s.tools[toolName]
	if !ok {
		return fmt.Sprintf("Unknown tool: %s", toolName)
	}

	text, err := entry.execute(ctx, argumentsJSON)
	if err != nil {
		return fmt.Sprintf("Error executing %s: %v", toolName, err)
	}
	return text
}

// ListToolNames returns the names of all registered tools in registration
// order.
func (s *Server) ListToolNames() []string {
	names := make([]string, len(s.toolOrder))
	copy(names, s.toolOrder)
	return names
}

// ToolMetadata contains metadata about an MCP tool including its schema.
type ToolMetadata struct {
	Name            string
	Description     string
	InputSchemaJSON string
}

// GetToolMetadata returns metadata for all registered tools in registration
// order, including their input schemas.
func (s *Server) GetToolMetadata() []ToolMetadata {
	metadata := make([]ToolMetadata, 0, len(s.toolOrder))
	for _, name := range s.toolOrder {
		entry := s.tools[name]
		metadata = append(metadata, ToolMetadata{
			Name:            name,
			Description:     entry.tool.Description,
			InputSchemaJSON: string(entry.tool.RawInputSchema),
		})
	}
	return metadata
}

// isToolEnabled checks if a tool is enabled based on configuration.
func (s *Server) isToolEnabled(toolName string) bool {
	if len(s.config.EnabledTools) == 0 {
		// All tools enabled by default.
		return true
	}

	for _, enabled := range s.config.EnabledTools {
		if enabled == toolName {
			return true
		}
	}
	return false
}

// auditToolCall logs a tool invocation if auditing is enabled.
func (s *Server) auditToolCall(toolName string, args interface{}) {
	if !s.config.AuditEnabled {
		return
	}

	argsJSON, _ := json.Marshal(args)
	s.logger.Info().
		Str("instance_id", s.instanceID).
		Str("tool", toolName).
		RawJSON("args", argsJSON).
		Msg("MCP tool called")
}

// toolCallHandler adapts an executeFunc to the MCP tool handler signature.
// Failures become text results, never protocol errors, so a misbehaving
// external tool cannot take down the session.
func (s *Server) toolCallHandler(name string, execute executeFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argumentsJSON := "{}"
		if request.Params.Arguments != nil {
			argBytes, err := json.Marshal(request.Params.Arguments)
			if err != nil {
				return mcp.NewToolResultText(fmt.Sprintf("Error executing %s: %v", name, err)), nil
			}
			argumentsJSON = string(argBytes)
		}

		text, err := execute(ctx, argumentsJSON)
		if err != nil {
			return mcp.NewToolResultText(fmt.Sprintf("Error executing %s: %v", name, err)), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}
