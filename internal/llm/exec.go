package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ExecConfig holds configuration for the CLI-backed completer.
type ExecConfig struct {
	// Command is the model CLI and its fixed arguments (e.g. ["claude", "-p"]).
	Command []string
	// Timeout bounds a single completion call.
	Timeout time.Duration
	// MaxOutputBytes caps how much of the model's stdout is kept.
	MaxOutputBytes int64
}

// DefaultExecConfig returns the standard CLI-completer settings.
func DefaultExecConfig(command []string) ExecConfig {
	return ExecConfig{
		Command:        command,
		Timeout:        180 * time.Second,
		MaxOutputBytes: 1024 * 1024,
	}
}

// ExecCompleter invokes an external model CLI as a subprocess. The rendered
// conversation goes to the child's stdin and the completion is read from its
// stdout. Process-level failures (timeouts, non-zero exits, spawn errors)
// are transient: the provider may simply be rate limited or unreachable.
type ExecCompleter struct {
	config ExecConfig
	logger *slog.Logger
}

// NewExecCompleter creates a CLI-backed completer.
func NewExecCompleter(config ExecConfig, logger *slog.Logger) *ExecCompleter {
	return &ExecCompleter{config: config, logger: logger}
}

func (e *ExecCompleter) Complete(ctx context.Context, messages []Message) (string, error) {
	if len(e.config.Command) == 0 {
		return "", fmt.Errorf("llm: no command configured")
	}

	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, e.config.Command[0], e.config.Command[1:]...)
	cmd.Env = os.Environ()
	cmd.Stdin = strings.NewReader(RenderPrompt(messages))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.logger.Debug("invoking model CLI", "command", e.config.Command[0], "messages", len(messages))

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return "", Transient(fmt.Errorf("model CLI timed out after %s", elapsed.Round(time.Millisecond)))
		case errors.As(err, &exitErr):
			e.logger.Error("model CLI exited with error",
				"exit_code", exitErr.ExitCode(),
				"stderr", truncate(stderr.String(), 512))
			return "", Transient(fmt.Errorf("model CLI exit %d: %s", exitErr.ExitCode(), truncate(stderr.String(), 512)))
		default:
			return "", Transient(fmt.Errorf("model CLI: %w", err))
		}
	}

	out := stdout.Bytes()
	if e.config.MaxOutputBytes > 0 && int64(len(out)) > e.config.MaxOutputBytes {
		out = out[:e.config.MaxOutputBytes]
	}

	e.logger.Debug("model CLI completed", "bytes", len(out), "elapsed", elapsed)
	return string(out), nil
}

// RenderPrompt flattens an ordered conversation into the plain-text form the
// model CLI consumes: the system instruction first, then each turn prefixed
// by its role.
func RenderPrompt(messages []Message) string {
	var b strings.Builder
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			b.WriteString(m.Content)
			b.WriteString("\n\n")
		case RoleUser:
			b.WriteString("User: ")
			b.WriteString(m.Content)
			b.WriteString("\n")
		case RoleAssistant:
			b.WriteString("Assistant: ")
			b.WriteString(m.Content)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
