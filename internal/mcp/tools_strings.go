package mcp

import (
	"context"
	"fmt"

	"github.com/isalwa-labs/ghidra-mcp/internal/binutil"
)

// registerExtractStringsTool registers the extract_strings tool.
func (s *Server) registerExtractStringsTool() {
	s.registerTool(
		"extract_strings",
		"Extract readable strings from a binary file",
		ExtractStringsInput{},
		s.executeExtractStringsTool,
	)
}

// executeExtractStringsTool executes extract_strings.
func (s *Server) executeExtractStringsTool(ctx context.Context, argumentsJSON string) (string, error) {
	var input ExtractStringsInput
	if err := parseArguments(argumentsJSON, &input); err != nil {
		return "", err
	}
	if input.FilePath == "" {
		return "", fmt.Errorf("missing required argument: file_path")
	}

	// The default is applied here, not by the schema layer.
	minLength := binutil.DefaultMinStringLength
	if input.MinLength != nil {
		minLength = *input.MinLength
	}

	s.auditToolCall("extract_strings", input)

	return s.inspector.Strings(ctx, input.FilePath, minLength)
}
