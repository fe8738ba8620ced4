package binutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

const (
	// DefaultMinStringLength is the strings -n value used when the caller
	// does not supply one.
	DefaultMinStringLength = 4

	// stringsPreviewLimit caps how many extracted strings are listed before
	// the output is truncated with a remainder count.
	stringsPreviewLimit = 100
)

// Inspector implements the four inspection reports. Each method returns the
// user-facing text. User-level problems (missing file, missing optional
// tool) are reported in the text with a nil error; a non-nil error is an
// execution fault for the dispatcher to wrap.
type Inspector struct {
	run    CommandRunner
	logger zerolog.Logger
}

// NewInspector creates an Inspector on top of the given runner.
func NewInspector(run CommandRunner, logger zerolog.Logger) *Inspector {
	return &Inspector{
		run:    run,
		logger: logger.With().Str("component", "inspector").Logger(),
	}
}

// fileNotFound is the uniform missing-path report shared by all inspections.
func fileNotFound(path string) string {
	return fmt.Sprintf("Error: File not found: %s", path)
}

// Analyze reports file size, permissions and the file(1) type probe. ELF
// binaries additionally get a readelf -h header dump when readelf is
// installed.
func (in *Inspector) Analyze(ctx context.Context, path string) (string, error) {
	st, err := os.Stat(path)
	if err != nil {
		return fileNotFound(path), nil
	}

	lines := []string{
		fmt.Sprintf("=== Binary Analysis: %s ===\n", filepath.Base(path)),
		fmt.Sprintf("File Size: %d bytes (%.2f KB)", st.Size(), float64(st.Size())/1024),
		fmt.Sprintf("Permissions: %03o", st.Mode().Perm()),
	}

	fileOut, err := in.run.Run(ctx, "file", path)
	if err != nil {
		if IsNotInstalled(err) {
			return "", err
		}
		lines = append(lines, fmt.Sprintf("Could not determine file type: %v", err))
		return strings.Join(lines, "\n"), nil
	}
	lines = append(lines, fmt.Sprintf("\nFile Type:\n%s", strings.TrimSpace(fileOut)))

	// ELF detection by substring match on file(1) output. Brittle against
	// output format changes; inherited behavior.
	if strings.Contains(fileOut, "ELF") {
		headerOut, err := in.run.Run(ctx, "readelf", "-h", path)
		if err != nil {
			lines = append(lines, "\n(readelf not available for detailed ELF analysis)")
		} else {
			lines = append(lines, fmt.Sprintf("\nELF Header:\n%s", headerOut))
		}
	}

	return strings.Join(lines, "\n"), nil
}

// Strings extracts printable strings of at least minLength characters.
// Output beyond stringsPreviewLimit entries is truncated with a count of the
// remainder.
func (in *Inspector) Strings(ctx context.Context, path string, minLength int) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return fileNotFound(path), nil
	}
	if minLength <= 0 {
		minLength = DefaultMinStringLength
	}

	out, err := in.run.Run(ctx, "strings", "-n", strconv.Itoa(minLength), path)
	if err != nil {
		if IsNotInstalled(err) {
			return "Error: 'strings' command not found. Install binutils package.", nil
		}
		return fmt.Sprintf("Error extracting strings: %v", err), nil
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")

	if len(lines) > stringsPreviewLimit {
		var b strings.Builder
		fmt.Fprintf(&b, "=== Strings Extracted (showing first %d of %d) ===\n\n",
			stringsPreviewLimit, len(lines))
		b.WriteString(strings.Join(lines[:stringsPreviewLimit], "\n"))
		fmt.Fprintf(&b, "\n\n... and %d more strings", len(lines)-stringsPreviewLimit)
		return b.String(), nil
	}

	return fmt.Sprintf("=== Strings Extracted (%d total) ===\n\n%s",
		len(lines), strings.Join(lines, "\n")), nil
}

// Info returns the single-line file(1) brief-mode description. The output is
// deterministic for an unmodified file.
func (in *Inspector) Info(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return fileNotFound(path), nil
	}

	out, err := in.run.Run(ctx, "file", "-b", path)
	if err != nil {
		if IsNotInstalled(err) {
			return "", err
		}
		return fmt.Sprintf("Error: %v", err), nil
	}

	return fmt.Sprintf("File Info: %s", strings.TrimSpace(out)), nil
}

// Security reports exploit mitigations. A combined checksec tool is
// preferred verbatim; otherwise NX, PIE and stack-canary presence are probed
// individually via readelf and nm. When the probing tools themselves are
// missing, the report gathered so far is returned with an installation note.
func (in *Inspector) Security(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return fileNotFound(path), nil
	}

	lines := []string{
		fmt.Sprintf("=== Security Features: %s ===\n", filepath.Base(path)),
	}

	if in.run.Installed("checksec") {
		out, err := in.run.Run(ctx, "checksec", "--file="+path)
		if err != nil {
			return "", err
		}
		lines = append(lines, out)
		return strings.Join(lines, "\n"), nil
	}

	// Manual probes. All three are substring matches against tool output,
	// so a format change in readelf or nm yields false negatives.
	phdrs, err := in.run.Run(ctx, "readelf", "-l", path)
	if err != nil {
		return securityFallback(lines), nil
	}
	nxEnabled := strings.Contains(phdrs, "GNU_STACK") && strings.Contains(phdrs, "RW")
	lines = append(lines, fmt.Sprintf("NX (No Execute): %s", enabledOrDisabled(nxEnabled)))

	header, err := in.run.Run(ctx, "readelf", "-h", path)
	if err != nil {
		return securityFallback(lines), nil
	}
	pieEnabled := strings.Contains(header, "DYN (Shared object file)") ||
		strings.Contains(header, "DYN (Position-Independent Executable file)")
	lines = append(lines, fmt.Sprintf("PIE: %s", enabledOrDisabled(pieEnabled)))

	symbols, err := in.run.Run(ctx, "nm", path)
	if err != nil {
		// nm exits non-zero on stripped binaries; same note either way.
		return securityFallback(lines), nil
	}
	canaryEnabled := strings.Contains(symbols, "__stack_chk_fail")
	lines = append(lines, fmt.Sprintf("Stack Canary: %s", enabledOrDisabled(canaryEnabled)))

	return strings.Join(lines, "\n"), nil
}

func securityFallback(lines []string) string {
	lines = append(lines, "\nNote: Install 'checksec' or 'readelf' for detailed security analysis")
	return strings.Join(lines, "\n")
}

func enabledOrDisabled(enabled bool) string {
	if enabled {
		return "Enabled"
	}
	return "Disabled"
}
