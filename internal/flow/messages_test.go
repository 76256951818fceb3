package flow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/calenhq/calen/internal/calendar"
)

func TestConflictMessage(t *testing.T) {
	start := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)

	t.Run("same day range", func(t *testing.T) {
		end := start.Add(time.Hour)
		msg := conflictMessage(calendar.Event{Title: "Diş hekimi", StartDate: start, EndDate: &end})
		require.Equal(t, "Bu zaman aralığında çakışan bir etkinlik var: Diş hekimi (01.09.2026 14:00 - 15:00)", msg)
	})

	t.Run("multi day range repeats the date", func(t *testing.T) {
		end := start.Add(26 * time.Hour)
		msg := conflictMessage(calendar.Event{Title: "Konferans", StartDate: start, EndDate: &end})
		require.Equal(t, "Bu zaman aralığında çakışan bir etkinlik var: Konferans (01.09.2026 14:00 - 02.09.2026 16:00)", msg)
	})

	t.Run("no end date", func(t *testing.T) {
		msg := conflictMessage(calendar.Event{Title: "Hatırlatma", StartDate: start})
		require.Equal(t, "Bu zaman aralığında çakışan bir etkinlik var: Hatırlatma (01.09.2026 14:00)", msg)
	})
}

func TestCreateDoneMessage(t *testing.T) {
	require.Equal(t, "Etkinlik oluşturuldu.", createDoneMessage(1))
	require.Equal(t, "3 etkinlik oluşturuldu.", createDoneMessage(3))
}
