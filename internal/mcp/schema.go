package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/mark3labs/mcp-go/mcp"
)

// generateInputSchema reflects a JSON schema from a tool input struct.
func generateInputSchema(inputType interface{}) (map[string]any, error) {
	// Use reflector without $ref/$defs to get inline schema that LLMs can understand.
	reflector := jsonschema.Reflector{
		DoNotReference: true, // Inline all schemas instead of using $ref/$defs
	}
	schema := reflector.Reflect(inputType)

	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	var schemaMap map[string]any
	if err := json.Unmarshal(schemaBytes, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}

	// Remove JSON Schema draft-specific fields that MCP clients don't expect.
	// The MCP protocol expects a simpler schema format with just:
	// type, properties, required, and property-level constraints.
	delete(schemaMap, "$schema")
	delete(schemaMap, "$id")

	return schemaMap, nil
}

// registerTool generates the input schema, registers the tool with the MCP
// protocol server, and records it in the dispatch registry. Registration
// order is the order tools are advertised in.
func (s *Server) registerTool(
	name string,
	description string,
	inputType interface{},
	execute executeFunc,
) {
	if !s.isToolEnabled(name) {
		return
	}

	inputSchema, err := generateInputSchema(inputType)
	if err != nil {
		s.logger.Error().Err(err).Str("tool", name).Msg("Failed to generate input schema")
		return
	}

	schemaBytes, err := json.Marshal(inputSchema)
	if err != nil {
		s.logger.Error().Err(err).Str("tool", name).Msg("Failed to marshal schema")
		return
	}

	tool := mcp.NewToolWithRawSchema(name, description, schemaBytes)
	s.mcpServer.AddTool(tool, s.toolCallHandler(name, execute))

	s.tools[name] = registeredTool{tool: tool, execute: execute}
	s.toolOrder = append(s.toolOrder, name)

	s.logger.Debug().Str("tool", name).Msg("Tool registered")
}
