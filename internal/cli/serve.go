// Package cli provides the ghidra-mcp cobra commands.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/isalwa-labs/ghidra-mcp/internal/binutil"
	"github.com/isalwa-labs/ghidra-mcp/internal/config"
	ierrors "github.com/isalwa-labs/ghidra-mcp/internal/errors"
	"github.com/isalwa-labs/ghidra-mcp/internal/logging"
	mcpserver "github.com/isalwa-labs/ghidra-mcp/internal/mcp"
	"github.com/isalwa-labs/ghidra-mcp/pkg/version"
)

// ServerName is the name advertised during MCP initialization.
const ServerName = "ghidra-mcp"

// NewServeCmd creates the 'ghidra-mcp serve' command.
func NewServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the MCP server on stdio",
		Long: `Serve the binary-inspection MCP server over stdin/stdout.

This exposes the analyze_binary, extract_strings, get_file_info and
check_security tools to any MCP client, including Claude Desktop and AI
agent frameworks that support the Model Context Protocol.

Logs go to stderr; stdout carries the protocol stream. The server runs
until the transport closes.

Examples:
  # Serve with default configuration
  ghidra-mcp serve

  # Serve with an explicit config file
  ghidra-mcp serve --config ~/.ghidra-mcp/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, logger, err := buildServer(configPath)
			if err != nil {
				return err
			}
			defer ierrors.DeferClose(logger, srv, "failed to close MCP server")

			return srv.ServeStdio()
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default ~/.ghidra-mcp/config.yaml)")

	return cmd
}

// buildServer wires config, logging, the tool runner and the MCP server.
// Shared by serve and the tools commands so direct dispatch exercises the
// same stack as the stdio transport.
func buildServer(configPath string) (*mcpserver.Server, zerolog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewWithComponent(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: false,
	}, ServerName)

	if err := config.EnsureWorkspace(cfg.WorkspaceDir); err != nil {
		return nil, logger, err
	}
	logger.Debug().Str("workspace", cfg.WorkspaceDir).Msg("Workspace ready")

	if cfg.GhidraDir != "" {
		logger.Debug().Str("ghidra_dir", cfg.GhidraDir).Msg("Found Ghidra installation")
	} else {
		logger.Debug().Msg("No Ghidra installation found, using basic tools only")
	}

	runner := binutil.NewExecRunner(logger)
	inspector := binutil.NewInspector(runner, logger)

	srv, err := mcpserver.New(inspector, mcpserver.Config{
		ServerName:   ServerName,
		Version:      version.Version,
		Disabled:     cfg.MCP.Disabled,
		EnabledTools: cfg.MCP.EnabledTools,
		AuditEnabled: cfg.MCP.AuditEnabled,
	}, logger)
	if err != nil {
		return nil, logger, fmt.Errorf("failed to create MCP server: %w", err)
	}

	return srv, logger, nil
}
