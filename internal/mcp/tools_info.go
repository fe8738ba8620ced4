package mcp

import (
	"context"
	"fmt"
)

// registerFileInfoTool registers the get_file_info tool.
func (s *Server) registerFileInfoTool() {
	s.registerTool(
		"get_file_info",
		"Get detailed file information using 'file' command",
		FileInfoInput{},
		s.executeFileInfoTool,
	)
}

// executeFileInfoTool executes get_file_info.
func (s *Server) executeFileInfoTool(ctx context.Context, argumentsJSON string) (string, error) {
	var input FileInfoInput
	if err := parseArguments(argumentsJSON, &input); err != nil {
		return "", err
	}
	if input.FilePath == "" {
		return "", fmt.Errorf("missing required argument: file_path")
	}

	s.auditToolCall("get_file_info", input)

	return s.inspector.Info(ctx, input.FilePath)
}
