// Package auditlog appends every processed turn to an NDJSON file, giving
// an inspectable trail of what the assistant heard and answered.
package auditlog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/calenhq/calen/internal/flow"
)

// Record is one audit line.
type Record struct {
	TurnID     string          `json:"turn_id"`
	OwnerID    string          `json:"owner_id"`
	Text       string          `json:"text"`
	Route      flow.Route      `json:"route,omitempty"`
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Result     json.RawMessage `json:"result,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Log writes records to an NDJSON file.
type Log struct {
	file   *os.File
	logger *slog.Logger
	mu     sync.Mutex
}

// Open opens (or creates) the audit log file for appending.
func Open(path string, logger *slog.Logger) (*Log, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create audit log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	return &Log{file: file, logger: logger}, nil
}

// WriteTurn appends one turn record.
func (l *Log) WriteTurn(turnID string, in flow.TurnInput, result flow.TurnResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal turn result: %w", err)
	}
	rec := Record{
		TurnID:     turnID,
		OwnerID:    in.OwnerID,
		Text:       in.Text,
		Route:      result.Route,
		Success:    result.Success,
		Message:    result.Message,
		Result:     payload,
		OccurredAt: time.Now().UTC(),
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.file.Write(line); err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
