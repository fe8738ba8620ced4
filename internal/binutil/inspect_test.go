package binutil

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner is a canned-output CommandRunner. Keys are the full command
// line joined with spaces.
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	absent  map[string]bool

	calls []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, key)

	if f.absent[name] {
		return "", fmt.Errorf("%s: %w", name, exec.ErrNotFound)
	}
	if err, ok := f.errs[key]; ok {
		return f.outputs[key], err
	}
	if out, ok := f.outputs[key]; ok {
		return out, nil
	}
	return "", fmt.Errorf("%s: unexpected invocation %q", name, key)
}

func (f *fakeRunner) Installed(name string) bool {
	return !f.absent[name]
}

func newTestInspector(run CommandRunner) *Inspector {
	return NewInspector(run, zerolog.Nop())
}

// writeTempFile creates a file to satisfy the os.Stat existence checks.
func writeTempFile(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "target.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o755))
	return path
}

func TestAnalyze_FileNotFound(t *testing.T) {
	in := newTestInspector(&fakeRunner{})

	out, err := in.Analyze(context.Background(), "/no/such/file")
	require.NoError(t, err)
	assert.Equal(t, "Error: File not found: /no/such/file", out)
}

func TestAnalyze_NonELF(t *testing.T) {
	path := writeTempFile(t, 2048)
	run := &fakeRunner{
		outputs: map[string]string{
			"file " + path: path + ": ASCII text\n",
		},
	}
	in := newTestInspector(run)

	out, err := in.Analyze(context.Background(), path)
	require.NoError(t, err)

	assert.Contains(t, out, "=== Binary Analysis: target.bin ===")
	assert.Contains(t, out, "File Size: 2048 bytes (2.00 KB)")
	assert.Contains(t, out, "Permissions: 755")
	assert.Contains(t, out, "File Type:\n"+path+": ASCII text")
	assert.NotContains(t, out, "ELF Header")

	// Only the file probe runs for non-ELF input.
	assert.Equal(t, []string{"file " + path}, run.calls)
}

func TestAnalyze_ELFAppendsHeaderDump(t *testing.T) {
	path := writeTempFile(t, 100)
	run := &fakeRunner{
		outputs: map[string]string{
			"file " + path:       path + ": ELF 64-bit LSB executable, x86-64\n",
			"readelf -h " + path: "ELF Header:\n  Magic:   7f 45 4c 46\n",
		},
	}
	in := newTestInspector(run)

	out, err := in.Analyze(context.Background(), path)
	require.NoError(t, err)

	assert.Contains(t, out, "ELF Header:")
	assert.Contains(t, out, "Magic:   7f 45 4c 46")
}

func TestAnalyze_ELFWithoutReadelfDegrades(t *testing.T) {
	path := writeTempFile(t, 100)
	run := &fakeRunner{
		outputs: map[string]string{
			"file " + path: path + ": ELF 64-bit LSB executable, x86-64\n",
		},
		absent: map[string]bool{"readelf": true},
	}
	in := newTestInspector(run)

	out, err := in.Analyze(context.Background(), path)
	require.NoError(t, err)

	assert.Contains(t, out, "(readelf not available for detailed ELF analysis)")
	assert.NotContains(t, out, "Magic")
}

func TestAnalyze_FileProbeFailure(t *testing.T) {
	path := writeTempFile(t, 100)
	run := &fakeRunner{
		outputs: map[string]string{"file " + path: ""},
		errs: map[string]error{
			"file " + path: fmt.Errorf("file: exit status 1"),
		},
	}
	in := newTestInspector(run)

	out, err := in.Analyze(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, out, "Could not determine file type:")
}

func TestStrings_FileNotFound(t *testing.T) {
	in := newTestInspector(&fakeRunner{})

	out, err := in.Strings(context.Background(), "/no/such/file", 4)
	require.NoError(t, err)
	assert.Equal(t, "Error: File not found: /no/such/file", out)
}

func TestStrings_UnderLimitListsAll(t *testing.T) {
	path := writeTempFile(t, 10)
	run := &fakeRunner{
		outputs: map[string]string{
			"strings -n 4 " + path: "alpha\nbeta\ngamma\n",
		},
	}
	in := newTestInspector(run)

	out, err := in.Strings(context.Background(), path, 4)
	require.NoError(t, err)

	assert.Contains(t, out, "=== Strings Extracted (3 total) ===")
	assert.Contains(t, out, "alpha\nbeta\ngamma")
	assert.NotContains(t, out, "more strings")
}

func TestStrings_OverLimitTruncates(t *testing.T) {
	path := writeTempFile(t, 10)

	var sb strings.Builder
	for i := 0; i < 250; i++ {
		fmt.Fprintf(&sb, "string_%03d\n", i)
	}
	run := &fakeRunner{
		outputs: map[string]string{
			"strings -n 4 " + path: sb.String(),
		},
	}
	in := newTestInspector(run)

	out, err := in.Strings(context.Background(), path, 4)
	require.NoError(t, err)

	assert.Contains(t, out, "=== Strings Extracted (showing first 100 of 250) ===")
	assert.Contains(t, out, "... and 150 more strings")
	assert.Contains(t, out, "string_099")
	assert.NotContains(t, out, "string_100")
}

func TestStrings_MinLengthPassedThrough(t *testing.T) {
	path := writeTempFile(t, 10)
	run := &fakeRunner{
		outputs: map[string]string{
			"strings -n 8 " + path: "longenough\n",
		},
	}
	in := newTestInspector(run)

	out, err := in.Strings(context.Background(), path, 8)
	require.NoError(t, err)
	assert.Contains(t, out, "longenough")
	assert.Equal(t, []string{"strings -n 8 " + path}, run.calls)
}

func TestStrings_ZeroMinLengthUsesDefault(t *testing.T) {
	path := writeTempFile(t, 10)
	run := &fakeRunner{
		outputs: map[string]string{
			"strings -n 4 " + path: "x\n",
		},
	}
	in := newTestInspector(run)

	_, err := in.Strings(context.Background(), path, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"strings -n 4 " + path}, run.calls)
}

func TestStrings_ToolMissing(t *testing.T) {
	path := writeTempFile(t, 10)
	run := &fakeRunner{absent: map[string]bool{"strings": true}}
	in := newTestInspector(run)

	out, err := in.Strings(context.Background(), path, 4)
	require.NoError(t, err)
	assert.Equal(t, "Error: 'strings' command not found. Install binutils package.", out)
}

func TestInfo_Idempotent(t *testing.T) {
	path := writeTempFile(t, 10)
	run := &fakeRunner{
		outputs: map[string]string{
			"file -b " + path: "ELF 64-bit LSB executable, x86-64\n",
		},
	}
	in := newTestInspector(run)

	first, err := in.Info(context.Background(), path)
	require.NoError(t, err)
	second, err := in.Info(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "File Info: ELF 64-bit LSB executable, x86-64", first)
	assert.Equal(t, first, second)
}

func TestInfo_FileNotFound(t *testing.T) {
	in := newTestInspector(&fakeRunner{})

	out, err := in.Info(context.Background(), "/no/such/file")
	require.NoError(t, err)
	assert.Equal(t, "Error: File not found: /no/such/file", out)
}

func TestSecurity_PrefersChecksec(t *testing.T) {
	path := writeTempFile(t, 10)
	run := &fakeRunner{
		outputs: map[string]string{
			"checksec --file=" + path: "RELRO: Full RELRO\nNX: NX enabled\n",
		},
	}
	in := newTestInspector(run)

	out, err := in.Security(context.Background(), path)
	require.NoError(t, err)

	assert.Contains(t, out, "=== Security Features: target.bin ===")
	assert.Contains(t, out, "RELRO: Full RELRO")
	// Manual probes never run when checksec is available.
	assert.Equal(t, []string{"checksec --file=" + path}, run.calls)
}

func TestSecurity_ManualProbes(t *testing.T) {
	path := writeTempFile(t, 10)

	tests := []struct {
		name    string
		phdrs   string
		header  string
		symbols string
		want    []string
	}{
		{
			name:    "all enabled",
			phdrs:   "GNU_STACK      0x0000 RW  0x10",
			header:  "  Type: DYN (Position-Independent Executable file)",
			symbols: "U __stack_chk_fail@GLIBC_2.4",
			want: []string{
				"NX (No Execute): Enabled",
				"PIE: Enabled",
				"Stack Canary: Enabled",
			},
		},
		{
			name:    "all disabled",
			phdrs:   "LOAD  0x0000",
			header:  "  Type: EXEC (Executable file)",
			symbols: "T main",
			want: []string{
				"NX (No Execute): Disabled",
				"PIE: Disabled",
				"Stack Canary: Disabled",
			},
		},
		{
			name:    "shared object counts as PIE",
			phdrs:   "LOAD  0x0000",
			header:  "  Type: DYN (Shared object file)",
			symbols: "T main",
			want: []string{
				"NX (No Execute): Disabled",
				"PIE: Enabled",
				"Stack Canary: Disabled",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			run := &fakeRunner{
				outputs: map[string]string{
					"readelf -l " + path: tc.phdrs,
					"readelf -h " + path: tc.header,
					"nm " + path:         tc.symbols,
				},
				absent: map[string]bool{"checksec": true},
			}
			in := newTestInspector(run)

			out, err := in.Security(context.Background(), path)
			require.NoError(t, err)

			for _, line := range tc.want {
				assert.Contains(t, out, line)
			}
			assert.NotContains(t, out, "Note: Install")
		})
	}
}

func TestSecurity_ProbeToolsMissing(t *testing.T) {
	path := writeTempFile(t, 10)
	run := &fakeRunner{
		absent: map[string]bool{"checksec": true, "readelf": true},
	}
	in := newTestInspector(run)

	out, err := in.Security(context.Background(), path)
	require.NoError(t, err)

	assert.Contains(t, out, "=== Security Features: target.bin ===")
	assert.Contains(t, out, "Note: Install 'checksec' or 'readelf' for detailed security analysis")
	assert.NotContains(t, out, "NX (No Execute)")
}

func TestSecurity_StrippedBinaryKeepsPartialReport(t *testing.T) {
	path := writeTempFile(t, 10)
	run := &fakeRunner{
		outputs: map[string]string{
			"readelf -l " + path: "GNU_STACK      0x0000 RW  0x10",
			"readelf -h " + path: "  Type: DYN (Shared object file)",
			"nm " + path:         "",
		},
		errs: map[string]error{
			// nm exits non-zero on stripped binaries.
			"nm " + path: fmt.Errorf("nm: exit status 1"),
		},
		absent: map[string]bool{"checksec": true},
	}
	in := newTestInspector(run)

	out, err := in.Security(context.Background(), path)
	require.NoError(t, err)

	assert.Contains(t, out, "NX (No Execute): Enabled")
	assert.Contains(t, out, "PIE: Enabled")
	assert.NotContains(t, out, "Stack Canary")
	assert.Contains(t, out, "Note: Install 'checksec' or 'readelf'")
}

func TestSecurity_FileNotFound(t *testing.T) {
	in := newTestInspector(&fakeRunner{})

	out, err := in.Security(context.Background(), "/no/such/file")
	require.NoError(t, err)
	assert.Equal(t, "Error: File not found: /no/such/file", out)
}
