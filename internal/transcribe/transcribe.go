// Package transcribe wraps the external speech-to-text collaborator. It
// sits upstream of intent classification and is not part of the turn state
// machine.
package transcribe

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

// Transcriber converts raw audio bytes to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// ExecTranscriber shells out to a configured speech-to-text command, piping
// the audio to stdin and reading the transcript from stdout.
type ExecTranscriber struct {
	command []string
	timeout time.Duration
	logger  *slog.Logger
}

// NewExec creates a CLI-backed transcriber.
func NewExec(command []string, timeout time.Duration, logger *slog.Logger) *ExecTranscriber {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &ExecTranscriber{command: command, timeout: timeout, logger: logger}
}

func (t *ExecTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(t.command) == 0 {
		return "", fmt.Errorf("transcribe: no command configured")
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, t.command[0], t.command[1:]...)
	cmd.Env = os.Environ()
	cmd.Stdin = bytes.NewReader(audio)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			t.logger.Error("transcriber exited with error",
				"exit_code", exitErr.ExitCode(), "stderr", stderr.String())
			return "", fmt.Errorf("transcriber exit %d", exitErr.ExitCode())
		}
		return "", fmt.Errorf("transcriber: %w", err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
