package calendar

import "time"

// DayEventBudget is the fixed number of event titles a day cell displays
// before collapsing the rest into a "+N more" indicator.
const DayEventBudget = 2

// DayCell is one real day of the month grid. Placeholder cells for the
// previous month's tail are nil entries in Grid.Cells.
type DayCell struct {
	Day    int       `json:"day"`
	Date   time.Time `json:"date"`
	Events []Event   `json:"events"`
}

// Visible returns the events shown as titles, capped at DayEventBudget.
func (c *DayCell) Visible() []Event {
	if len(c.Events) <= DayEventBudget {
		return c.Events
	}
	return c.Events[:DayEventBudget]
}

// Overflow returns how many events are collapsed into the "+N more" indicator.
func (c *DayCell) Overflow() int {
	if n := len(c.Events) - DayEventBudget; n > 0 {
		return n
	}
	return 0
}

// Grid is the renderable month matrix: leading nil placeholders padding to a
// Sunday-start week, then one cell per real day.
type Grid struct {
	Window MonthWindow
	Cells  []*DayCell
}

// BuildGrid buckets the aggregated events by calendar day and lays them out
// on a fixed 7-column, Sunday-start month grid.
func BuildGrid(win MonthWindow, events []Event) Grid {
	lead := int(win.Start().Weekday()) // Sunday == 0
	cells := make([]*DayCell, 0, lead+win.Days())
	for i := 0; i < lead; i++ {
		cells = append(cells, nil)
	}

	byDay := make(map[int][]Event)
	for _, e := range events {
		// bucket by day-of-year equality, not exact timestamp
		if e.Date.Year() != win.Year || e.Date.Month() != win.Month {
			continue
		}
		day := e.Date.Day()
		byDay[day] = append(byDay[day], e)
	}

	for day := 1; day <= win.Days(); day++ {
		cells = append(cells, &DayCell{
			Day:    day,
			Date:   time.Date(win.Year, win.Month, day, 0, 0, 0, 0, time.UTC),
			Events: byDay[day],
		})
	}
	return Grid{Window: win, Cells: cells}
}

// Weeks chunks the cells into rows of 7, padding the trailing week with nil
// placeholders.
func (g Grid) Weeks() [][]*DayCell {
	var weeks [][]*DayCell
	for i := 0; i < len(g.Cells); i += 7 {
		end := i + 7
		if end > len(g.Cells) {
			end = len(g.Cells)
		}
		week := make([]*DayCell, 7)
		copy(week, g.Cells[i:end])
		weeks = append(weeks, week)
	}
	return weeks
}
