// Package main provides the ghidra-mcp server binary.
//
// ghidra-mcp exposes binary-inspection tools (file typing, string
// extraction, ELF header dumps, security-mitigation checks) to MCP clients
// over stdio. Each tool wraps one external CLI utility.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/isalwa-labs/ghidra-mcp/internal/cli"
	"github.com/isalwa-labs/ghidra-mcp/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "ghidra-mcp",
		Short:         "ghidra-mcp - binary inspection tools over the Model Context Protocol",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(cli.NewServeCmd())
	rootCmd.AddCommand(cli.NewToolsCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("ghidra-mcp version %s\n", version.Version)
			cmd.Printf("Git commit: %s\n", version.GitCommit)
			cmd.Printf("Build date: %s\n", version.BuildDate)
			cmd.Printf("Go version: %s\n", version.GoVersion)
		},
	}
}
