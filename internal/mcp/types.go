package mcp

// Input types for MCP tools.
// Optional fields use pointers to allow nil values.

// AnalyzeBinaryInput is the input for analyze_binary.
type AnalyzeBinaryInput struct {
	FilePath string `json:"file_path" jsonschema:"description=Path to the binary file to analyze"`
}

// ExtractStringsInput is the input for extract_strings.
type ExtractStringsInput struct {
	FilePath  string `json:"file_path" jsonschema:"description=Path to the binary file"`
	MinLength *int   `json:"min_length,omitempty" jsonschema:"description=Minimum string length (default: 4),default=4"`
}

// FileInfoInput is the input for get_file_info.
type FileInfoInput struct {
	FilePath string `json:"file_path" jsonschema:"description=Path to the file"`
}

// CheckSecurityInput is the input for check_security.
type CheckSecurityInput struct {
	FilePath string `json:"file_path" jsonschema:"description=Path to the binary file"`
}
