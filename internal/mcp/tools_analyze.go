package mcp

import (
	"context"
	"encoding/json"
	"fmt"
)

// parseArguments decodes JSON-encoded tool arguments into the input struct.
func parseArguments(argumentsJSON string, input interface{}) error {
	if argumentsJSON == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(argumentsJSON), input); err != nil {
		return fmt.Errorf("failed to parse arguments: %w", err)
	}
	return nil
}

// registerAnalyzeBinaryTool registers the analyze_binary tool.
func (s *Server) registerAnalyzeBinaryTool() {
	s.registerTool(
		"analyze_binary",
		"Analyze a binary file and get basic information (file type, size, architecture)",
		AnalyzeBinaryInput{},
		s.executeAnalyzeBinaryTool,
	)
}

// executeAnalyzeBinaryTool executes analyze_binary.
func (s *Server) executeAnalyzeBinaryTool(ctx context.Context, argumentsJSON string) (string, error) {
	var input AnalyzeBinaryInput
	if err := parseArguments(argumentsJSON, &input); err != nil {
		return "", err
	}
	if input.FilePath == "" {
		return "", fmt.Errorf("missing required argument: file_path")
	}

	s.auditToolCall("analyze_binary", input)

	return s.inspector.Analyze(ctx, input.FilePath)
}
