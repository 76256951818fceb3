// Package ics serializes owned events to iCalendar for export into other
// calendar clients.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/calenhq/calen/internal/calendar"
)

// DefaultEventLength is assumed for open-ended events so that importers
// always see a DTEND.
const DefaultEventLength = 30 * time.Minute

// Export renders the events as one VCALENDAR.
func Export(events []calendar.Event) (string, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//calen//calendar assistant//TR")

	for _, ev := range events {
		if ev.ID == "" {
			return "", fmt.Errorf("event %q has no id", ev.Title)
		}
		ve := cal.AddEvent(ev.ID + "@calen")
		ve.SetSummary(ev.Title)
		ve.SetStartAt(ev.StartDate)
		if ev.EndDate != nil {
			ve.SetEndAt(*ev.EndDate)
		} else {
			ve.SetEndAt(ev.StartDate.Add(DefaultEventLength))
		}
		if ev.Location != "" {
			ve.SetLocation(ev.Location)
		}
		if !ev.CreatedAt.IsZero() {
			ve.SetDtStampTime(ev.CreatedAt)
		} else {
			ve.SetDtStampTime(time.Now().UTC())
		}
	}

	return cal.Serialize(), nil
}
