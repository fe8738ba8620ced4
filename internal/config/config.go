// Package config provides configuration loading for the ghidra-mcp server.
//
// Configuration is an explicit value constructed once at startup and passed
// read-only into the server. It is resolved in three layers: built-in
// defaults, an optional YAML file, then environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultDir is the per-user configuration directory under $HOME.
	DefaultDir = ".ghidra-mcp"

	// ConfigFile is the configuration file name inside DefaultDir.
	ConfigFile = "config.yaml"

	// WorkspaceDirName is the per-user scratch directory created at startup.
	// No handler writes into it today; it exists for future analysis
	// artifacts (Ghidra projects, decompiler output).
	WorkspaceDirName = ".ghidra_mcp_workspace"
)

// Config contains the full server configuration.
type Config struct {
	// LogLevel sets the logging level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// WorkspaceDir is the scratch directory created at startup.
	WorkspaceDir string `yaml:"workspace_dir"`

	// GhidraDir is the Ghidra installation directory. Empty means no
	// installation was found; none of the current tools require one.
	GhidraDir string `yaml:"ghidra_dir"`

	// MCP contains MCP server settings.
	MCP MCPConfig `yaml:"mcp"`
}

// MCPConfig contains MCP server settings.
type MCPConfig struct {
	// Disabled controls whether the MCP server refuses to start.
	Disabled bool `yaml:"disabled"`

	// EnabledTools optionally restricts which tools are registered.
	// If empty, all tools are enabled.
	EnabledTools []string `yaml:"enabled_tools"`

	// AuditEnabled logs every tool invocation with its arguments.
	AuditEnabled bool `yaml:"audit_enabled"`
}

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		LogLevel:     "info",
		WorkspaceDir: DefaultWorkspaceDir(),
		GhidraDir:    FindGhidra(),
	}
}

// DefaultPath returns the path to the config file.
// GHIDRA_MCP_CONFIG overrides the default of ~/.ghidra-mcp/config.yaml.
func DefaultPath() string {
	if p := os.Getenv("GHIDRA_MCP_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(homeDir(), DefaultDir, ConfigFile)
}

// Load loads configuration from the given YAML file, falling back to
// defaults when the file does not exist. An empty path means DefaultPath.
// Environment variable overrides are applied after the file is read.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnv()

	if cfg.WorkspaceDir == "" {
		cfg.WorkspaceDir = DefaultWorkspaceDir()
	}

	return cfg, nil
}

// applyEnv applies environment variable overrides (layered configuration).
func (c *Config) applyEnv() {
	if v := os.Getenv("GHIDRA_MCP_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("GHIDRA_MCP_WORKSPACE"); v != "" {
		c.WorkspaceDir = v
	}
	if v := os.Getenv("GHIDRA_INSTALL_DIR"); v != "" {
		if _, err := os.Stat(v); err == nil {
			c.GhidraDir = v
		}
	}
}

// DefaultWorkspaceDir returns the default scratch directory path.
func DefaultWorkspaceDir() string {
	return filepath.Join(homeDir(), WorkspaceDirName)
}

// EnsureWorkspace creates the workspace directory if it does not exist.
// Creation is idempotent; an existing directory is not an error.
func EnsureWorkspace(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create workspace directory %s: %w", dir, err)
	}
	return nil
}

// FindGhidra locates a Ghidra installation directory. GHIDRA_INSTALL_DIR is
// checked first, then a short list of conventional locations. Returns empty
// when no installation exists; callers treat that as non-fatal since none of
// the registered tools require Ghidra.
func FindGhidra() string {
	candidates := []string{
		os.Getenv("GHIDRA_INSTALL_DIR"),
		"/opt/ghidra",
		"/usr/local/ghidra",
		filepath.Join(homeDir(), "ghidra"),
	}

	for _, path := range candidates {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// homeDir returns the user home directory, with a /tmp fallback for
// containerized environments without one.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "ghidra-mcp-fallback")
	}
	return home
}
