package calendar

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/tmukana/uongozi/core"
	memoryqs "github.com/tmukana/uongozi/storage/query/memory"
)

type stubSource struct {
	name   string
	events []Event
	err    error
}

func (s stubSource) Name() string { return s.name }

func (s stubSource) Events(context.Context, MonthWindow) ([]Event, error) {
	return s.events, s.err
}

func TestAggregatorSortsByDate(t *testing.T) {
	agg := NewAggregator(nopLogger{},
		stubSource{name: "a", events: []Event{
			{ID: "1", Type: TypeEvent, Date: marchDate(20, 10)},
			{ID: "2", Type: TypeEvent, Date: marchDate(5, 10)},
		}},
		stubSource{name: "b", events: []Event{
			{ID: "3", Type: TypeStudy, Date: marchDate(12, 9)},
		}},
	)

	events := agg.MonthEvents(context.Background(), march)
	assert.Len(t, events, 3)
	assert.True(t, sort.SliceIsSorted(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	}))
}

func TestAggregatorStableTieBreak(t *testing.T) {
	tie := marchDate(15, 12)
	agg := NewAggregator(nopLogger{},
		stubSource{name: "first", events: []Event{{ID: "a", Type: TypeEvent, Date: tie}}},
		stubSource{name: "second", events: []Event{{ID: "b", Type: TypeStudy, Date: tie}}},
		stubSource{name: "third", events: []Event{{ID: "c", Type: TypeQuiz, Date: tie}}},
	)

	events := agg.MonthEvents(context.Background(), march)
	if assert.Len(t, events, 3) {
		// ties keep source registration order
		assert.Equal(t, "a", events[0].ID)
		assert.Equal(t, "b", events[1].ID)
		assert.Equal(t, "c", events[2].ID)
	}
}

func TestAggregatorIsolatesFailures(t *testing.T) {
	agg := NewAggregator(nopLogger{},
		stubSource{name: "ok1", events: []Event{{ID: "1", Type: TypeEvent, Date: marchDate(3, 9)}}},
		stubSource{name: "broken", err: errors.New("backend down")},
		stubSource{name: "ok2", events: []Event{{ID: "2", Type: TypeClass, Date: marchDate(4, 9)}}},
	)

	events := agg.MonthEvents(context.Background(), march)
	assert.Len(t, events, 2, "a failing source must not blank the calendar")
	assert.Equal(t, "1", events[0].ID)
	assert.Equal(t, "2", events[1].ID)
}

func TestAggregatorEmptyMonth(t *testing.T) {
	agg := NewAggregator(nopLogger{}, stubSource{name: "empty"})
	assert.Empty(t, agg.MonthEvents(context.Background(), march))
}

// Full wiring: month window = March 2024, one generic event and one
// scheduled study on March 10. Expect [study@09:00, event@18:00] and a grid
// cell showing both titles with no truncation.
func TestAggregatorMarchScenario(t *testing.T) {
	qs := memoryqs.Open()
	qs.Load("events",
		core.Record{"id": "e1", "title": "Community Dinner", "event_date": time.Date(2024, time.March, 10, 18, 0, 0, 0, time.UTC)},
	)
	qs.Load("bible_studies",
		core.Record{"id": "s1", "title": "Romans Study", "scheduled_date": time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC), "status": "scheduled"},
	)

	agg := NewAggregator(nopLogger{}, DefaultSources(qs)...)
	events := agg.MonthEvents(context.Background(), march)

	if assert.Len(t, events, 2) {
		assert.Equal(t, TypeStudy, events[0].Type)
		assert.Equal(t, TypeEvent, events[1].Type)
	}

	grid := BuildGrid(march, events)
	cell := grid.Cells[int(march.Start().Weekday())+9] // March 10
	if assert.NotNil(t, cell) {
		assert.Equal(t, 10, cell.Day)
		assert.Len(t, cell.Visible(), 2)
		assert.Equal(t, 0, cell.Overflow())
	}
}

func TestAggregatorFailingTableStillServesOthers(t *testing.T) {
	qs := memoryqs.Open()
	qs.Load("events",
		core.Record{"id": "e1", "title": "Summit", "event_date": marchDate(10, 18)},
	)
	qs.Load("quizzes",
		core.Record{"id": "q1", "title": "Recap", "quiz_type": "program", "is_active": true, "created_at": marchDate(8, 10)},
	)
	qs.FailWith("bible_studies", errors.New("connection reset"))

	agg := NewAggregator(nopLogger{}, DefaultSources(qs)...)
	events := agg.MonthEvents(context.Background(), march)

	assert.Len(t, events, 2)
}
