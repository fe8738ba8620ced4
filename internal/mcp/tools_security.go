package mcp

import (
	"context"
	"fmt"
)

// registerCheckSecurityTool registers the check_security tool.
func (s *Server) registerCheckSecurityTool() {
	s.registerTool(
		"check_security",
		"Check binary security features (NX, PIE, Stack Canary, RELRO)",
		CheckSecurityInput{},
		s.executeCheckSecurityTool,
	)
}

// executeCheckSecurityTool executes check_security.
func (s *Server) executeCheckSecurityTool(ctx context.Context, argumentsJSON string) (string, error) {
	var input CheckSecurityInput
	if err := parseArguments(argumentsJSON, &input); err != nil {
		return "", err
	}
	if input.FilePath == "" {
		return "", fmt.Errorf("missing required argument: file_path")
	}

	s.auditToolCall("check_security", input)

	return s.inspector.Security(ctx, input.FilePath)
}
