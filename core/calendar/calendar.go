package calendar

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// EventType tags a unified calendar event with the source it came from.
// The tag is fixed at construction and drives icon, color and link rendering.
type EventType string

const (
	TypeEvent   EventType = "event"
	TypeStudy   EventType = "study"
	TypeClass   EventType = "class"
	TypeMeeting EventType = "meeting"
	TypeCourse  EventType = "course"
	TypeQuiz    EventType = "quiz"
)

type typeMeta struct {
	icon  string
	color string
}

var typeMetas = map[EventType]typeMeta{
	TypeEvent:   {icon: "calendar", color: "indigo"},
	TypeStudy:   {icon: "book-open", color: "emerald"},
	TypeClass:   {icon: "academic-cap", color: "sky"},
	TypeMeeting: {icon: "user-group", color: "amber"},
	TypeCourse:  {icon: "presentation-chart", color: "violet"},
	TypeQuiz:    {icon: "clipboard-check", color: "rose"},
}

func (t EventType) Valid() bool {
	_, ok := typeMetas[t]
	return ok
}

func (t EventType) Icon() string {
	return typeMetas[t].icon
}

func (t EventType) ColorClass() string {
	return typeMetas[t].color
}

// Key uniquely identifies an event across sources. IDs are only unique
// within their own source table, so the type tag is part of the key.
type Key struct {
	Type EventType `json:"type"`
	ID   string    `json:"id"`
}

// Event is the unified shape every source adapter maps its rows into.
type Event struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Date        time.Time   `json:"date"`
	Type        EventType   `json:"type"`
	Location    null.String `json:"location"`
	IsOnline    bool        `json:"is_online"`
	OnlineLink  null.String `json:"online_link"`
	Description null.String `json:"description"`
	Link        null.String `json:"link"` // events without a link are inert in the UI
}

func (e Event) Key() Key {
	return Key{Type: e.Type, ID: e.ID}
}

// MonthWindow is the inclusive timestamp range spanning the first to last
// instant of a calendar month. It bounds every adapter query and is immutable
// within a single aggregation pass.
type MonthWindow struct {
	Year  int
	Month time.Month

	start time.Time
	end   time.Time
}

func NewMonthWindow(year int, month time.Month) MonthWindow {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second) // last day 23:59:59
	return MonthWindow{Year: year, Month: month, start: start, end: end}
}

func (w MonthWindow) Start() time.Time { return w.start }
func (w MonthWindow) End() time.Time   { return w.end }

// Days returns the number of days in the window's month.
func (w MonthWindow) Days() int {
	return w.end.Day()
}

func (w MonthWindow) Contains(t time.Time) bool {
	return !t.Before(w.start) && !t.After(w.end)
}
