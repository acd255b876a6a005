package calendar

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

// defaultEventDuration is used for exported entries; sources model a single
// point in time with no duration.
const defaultEventDuration = time.Hour

// BuildICS renders one month's aggregated events as an iCalendar feed so
// members can subscribe from an external calendar client.
func BuildICS(win MonthWindow, events []Event) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Uongozi//Calendar//EN")
	cal.SetName(fmt.Sprintf("Uongozi %s %d", win.Month, win.Year))

	for _, e := range events {
		// ids are only unique per source; qualify with the type tag
		uid := fmt.Sprintf("%s-%s-%d@uongozi", e.Type, e.ID, e.Date.Unix())
		ev := cal.AddEvent(uid)
		ev.SetSummary(e.Title)
		ev.SetStartAt(e.Date)
		ev.SetEndAt(e.Date.Add(defaultEventDuration))
		if e.Description.Valid {
			ev.SetDescription(e.Description.String)
		}
		if e.IsOnline {
			if e.OnlineLink.Valid {
				ev.SetURL(e.OnlineLink.String)
			}
		} else if e.Location.Valid {
			ev.SetLocation(e.Location.String)
		}
	}
	return cal
}
