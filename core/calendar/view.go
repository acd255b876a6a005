package calendar

import "time"

// View is the dashboard calendar's UI state: the selected month and day,
// the loading flag and the last settled event list. Every transition is a
// pure step returning a new View, so rapid month navigation can be modeled
// and tested without a UI attached.
//
// Loads are tagged with a monotonically increasing generation. A slow
// aggregation that settles after the user has already navigated away carries
// a stale generation and is discarded by FinishLoad.
type View struct {
	Year        int
	Month       time.Month
	SelectedDay int // 0 = none
	Loading     bool
	Events      []Event

	generation uint64
}

func NewView(year int, month time.Month) View {
	return View{Year: year, Month: month}
}

func (v View) Window() MonthWindow {
	return NewMonthWindow(v.Year, v.Month)
}

// SelectMonth moves the view to another month, clearing the day selection
// and any settled events, and invalidating in-flight loads.
func (v View) SelectMonth(year int, month time.Month) View {
	v.Year = year
	v.Month = month
	v.SelectedDay = 0
	v.Loading = false
	v.Events = nil
	v.generation++
	return v
}

// SelectDay toggles the day selection; out-of-range days clear it.
func (v View) SelectDay(day int) View {
	if day < 1 || day > v.Window().Days() || day == v.SelectedDay {
		v.SelectedDay = 0
		return v
	}
	v.SelectedDay = day
	return v
}

// StartLoad marks the view loading and returns the generation token the
// matching FinishLoad must present.
func (v View) StartLoad() (View, uint64) {
	v.generation++
	v.Loading = true
	return v, v.generation
}

// FinishLoad settles a load. Results tagged with anything but the latest
// generation are discarded so a stale month never overwrites a newer one.
func (v View) FinishLoad(gen uint64, events []Event) View {
	if gen != v.generation {
		return v
	}
	v.Loading = false
	v.Events = events
	return v
}
