// Package binutil wraps the external binary-inspection utilities (file,
// strings, readelf, nm, checksec) behind a small command runner and formats
// their output into human-readable reports.
package binutil

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/rs/zerolog"
)

// CommandRunner runs external inspection tools. Implementations capture
// stdout and stderr interleaved, matching what an operator would see in a
// terminal.
type CommandRunner interface {
	// Run executes the named tool and returns its combined output. A
	// non-zero exit returns the output gathered so far alongside the error.
	Run(ctx context.Context, name string, args ...string) (string, error)

	// Installed reports whether the named tool is on PATH.
	Installed(name string) bool
}

// ExecRunner is the production CommandRunner backed by os/exec. Every
// invocation is attempted exactly once; there are no retries and no timeout
// beyond context cancellation.
type ExecRunner struct {
	logger zerolog.Logger
}

// NewExecRunner creates a CommandRunner that shells out to the host tools.
func NewExecRunner(logger zerolog.Logger) *ExecRunner {
	return &ExecRunner{
		logger: logger.With().Str("component", "runner").Logger(),
	}
}

// Run executes the tool synchronously and blocks until it exits.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	r.logger.Debug().Str("tool", name).Strs("args", args).Msg("Running external tool")

	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("%s: %w", name, err)
	}
	return string(out), nil
}

// Installed reports whether the tool resolves on PATH.
func (r *ExecRunner) Installed(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// IsNotInstalled reports whether err indicates the tool binary itself is
// missing, as opposed to the tool running and failing.
func IsNotInstalled(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}
