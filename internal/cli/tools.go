package cli

import (
	"github.com/spf13/cobra"

	ierrors "github.com/isalwa-labs/ghidra-mcp/internal/errors"
)

// NewToolsCmd creates the 'ghidra-mcp tools' command group for exercising
// the dispatcher without an MCP client.
func NewToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect and invoke the registered MCP tools",
	}

	cmd.AddCommand(newToolsListCmd())
	cmd.AddCommand(newToolsCallCmd())

	return cmd
}

// newToolsListCmd creates 'ghidra-mcp tools list'.
func newToolsListCmd() *cobra.Command {
	var configPath string
	var showSchemas bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, logger, err := buildServer(configPath)
			if err != nil {
				return err
			}
			defer ierrors.DeferClose(logger, srv, "failed to close MCP server")

			for _, meta := range srv.GetToolMetadata() {
				cmd.Printf("%s\n    %s\n", meta.Name, meta.Description)
				if showSchemas {
					cmd.Printf("    schema: %s\n", meta.InputSchemaJSON)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	cmd.Flags().BoolVar(&showSchemas, "schemas", false, "Include input schemas")

	return cmd
}

// newToolsCallCmd creates 'ghidra-mcp tools call'.
func newToolsCallCmd() *cobra.Command {
	var configPath string
	var argsJSON string

	cmd := &cobra.Command{
		Use:   "call <tool-name>",
		Short: "Invoke a tool directly and print its response text",
		Long: `Invoke a tool through the same dispatch path the MCP transport uses.

Examples:
  ghidra-mcp tools call get_file_info --args '{"file_path": "/bin/ls"}'
  ghidra-mcp tools call extract_strings --args '{"file_path": "/bin/ls", "min_length": 8}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, logger, err := buildServer(configPath)
			if err != nil {
				return err
			}
			defer ierrors.DeferClose(logger, srv, "failed to close MCP server")

			cmd.Println(srv.ExecuteTool(cmd.Context(), args[0], argsJSON))
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	cmd.Flags().StringVar(&argsJSON, "args", "{}", "Tool arguments as a JSON object")

	return cmd
}
