package auditlog

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calenhq/calen/internal/flow"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWriteTurnAppendsNDJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.ndjson")

	log, err := Open(path, testLogger())
	require.NoError(t, err)

	in := flow.TurnInput{OwnerID: "user-1", Text: "yarınki etkinliklerim"}
	result := flow.TurnResult{Route: flow.RouteList, Success: true, Message: "Etkinlikleri aşağıda görebilirsiniz"}

	require.NoError(t, log.WriteTurn("turn-1", in, result))
	require.NoError(t, log.WriteTurn("turn-2", in, flow.TurnResult{Message: "Bir hata oluştu."}))
	require.NoError(t, log.Close())

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var records []Record
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var rec Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, records, 2)

	require.Equal(t, "turn-1", records[0].TurnID)
	require.Equal(t, "user-1", records[0].OwnerID)
	require.Equal(t, flow.RouteList, records[0].Route)
	require.True(t, records[0].Success)
	require.False(t, records[0].OccurredAt.IsZero())

	var stored flow.TurnResult
	require.NoError(t, json.Unmarshal(records[0].Result, &stored))
	require.Equal(t, result.Message, stored.Message)

	require.Equal(t, "turn-2", records[1].TurnID)
	require.False(t, records[1].Success)
}

func TestOpenAppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.ndjson")

	first, err := Open(path, testLogger())
	require.NoError(t, err)
	require.NoError(t, first.WriteTurn("turn-1", flow.TurnInput{OwnerID: "u"}, flow.TurnResult{}))
	require.NoError(t, first.Close())

	second, err := Open(path, testLogger())
	require.NoError(t, err)
	require.NoError(t, second.WriteTurn("turn-2", flow.TurnInput{OwnerID: "u"}, flow.TurnResult{}))
	require.NoError(t, second.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "turn-1")
	require.Contains(t, string(data), "turn-2")
}
