package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
	"github.com/volatiletech/null/v8"

	"github.com/tmukana/uongozi/core"
)

// backend tables
const (
	tableEvents   = "events"
	tableStudies  = "bible_studies"
	tableClasses  = "bible_classes"
	tableMeetings = "bible_meetings"
	tableCourses  = "courses"
	tableLessons  = "course_lessons"
	tableQuizzes  = "quizzes"
)

// section routes the adapters link into
const (
	eventsRoute      = "/events"
	bibleSchoolRoute = "/bible-school"
)

// Source is a source-specific translator from one backend table's row shape
// into the unified Event shape, bounded to a month window.
// A Source returns an error instead of partial data; the aggregator isolates
// failures so one broken table never blanks the whole calendar.
type Source interface {
	Name() string
	Events(ctx context.Context, win MonthWindow) ([]Event, error)
}

// DefaultSources returns all six adapters in their registration order, which
// is also the tie-break order for same-timestamp events.
func DefaultSources(qs core.QueryService) []Source {
	return []Source{
		NewEventSource(qs),
		NewStudySource(qs),
		NewClassSource(qs),
		NewMeetingSource(qs),
		NewLessonSource(qs),
		NewQuizSource(qs),
	}
}

// EventSource adapts the generic events table. Events may carry an RRULE
// recurrence; recurring events are expanded into concrete occurrences within
// the window.
type EventSource struct {
	qs core.QueryService
}

var _ Source = (*EventSource)(nil)

func NewEventSource(qs core.QueryService) *EventSource {
	return &EventSource{qs: qs}
}

func (s *EventSource) Name() string { return "events" }

func (s *EventSource) Events(ctx context.Context, win MonthWindow) ([]Event, error) {
	var events []Event

	// one-off events inside the window
	recs, err := s.qs.Select(ctx, core.Query{
		Table: tableEvents,
		Filters: []core.Filter{
			core.Gte("event_date", win.Start()),
			core.Lte("event_date", win.End()),
		},
		Order: &core.DBOrdering{Field: "event_date", Ascending: true},
	})
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec.String("recurrence_rule") != "" {
			continue // handled below from their DTSTART
		}
		ev, ok := s.mapEvent(rec)
		if !ok {
			continue
		}
		events = append(events, ev)
	}

	// recurring events: the base row may predate the window, so only bound
	// the upper end and expand occurrences into the window
	recurring, err := s.qs.Select(ctx, core.Query{
		Table: tableEvents,
		Filters: []core.Filter{
			core.NotNull("recurrence_rule"),
			core.Lte("event_date", win.End()),
		},
	})
	if err != nil {
		return nil, err
	}
	for _, rec := range recurring {
		ev, ok := s.mapEvent(rec)
		if !ok {
			continue
		}
		for _, occ := range expandRule(ev.Date, rec.String("recurrence_rule"), win) {
			occEv := ev
			occEv.Date = occ
			events = append(events, occEv)
		}
	}
	return events, nil
}

func (s *EventSource) mapEvent(rec core.Record) (Event, bool) {
	date, ok := rec.Time("event_date")
	if !ok {
		return Event{}, false // rows without a date never reach the aggregator
	}
	return Event{
		ID:          rec.String("id"),
		Title:       rec.String("title"),
		Date:        date,
		Type:        TypeEvent,
		Location:    rec.NullString("location"),
		IsOnline:    rec.Bool("is_online"),
		OnlineLink:  rec.NullString("online_link"),
		Description: rec.NullString("description"),
		Link:        null.StringFrom(eventsRoute),
	}, true
}

// expandRule expands an RRULE into concrete occurrence timestamps within the
// window. A malformed rule yields no occurrences.
func expandRule(start time.Time, rule string, win MonthWindow) []time.Time {
	opts, err := rrule.StrToROption(rule)
	if err != nil {
		return nil
	}
	opts.Dtstart = start
	r, err := rrule.NewRRule(*opts)
	if err != nil {
		return nil
	}
	return r.Between(win.Start(), win.End(), true)
}

// bibleSchoolSource adapts one of the three Bible-school tables (studies,
// classes, meetings); they share a row shape and only differ by table and tag.
type bibleSchoolSource struct {
	qs    core.QueryService
	table string
	name  string
	typ   EventType
}

var _ Source = (*bibleSchoolSource)(nil)

func NewStudySource(qs core.QueryService) Source {
	return &bibleSchoolSource{qs: qs, table: tableStudies, name: "bible_studies", typ: TypeStudy}
}

func NewClassSource(qs core.QueryService) Source {
	return &bibleSchoolSource{qs: qs, table: tableClasses, name: "bible_classes", typ: TypeClass}
}

func NewMeetingSource(qs core.QueryService) Source {
	return &bibleSchoolSource{qs: qs, table: tableMeetings, name: "bible_meetings", typ: TypeMeeting}
}

func (s *bibleSchoolSource) Name() string { return s.name }

func (s *bibleSchoolSource) Events(ctx context.Context, win MonthWindow) ([]Event, error) {
	recs, err := s.qs.Select(ctx, core.Query{
		Table: s.table,
		Filters: []core.Filter{
			core.Eq("status", "scheduled"),
			core.Gte("scheduled_date", win.Start()),
			core.Lte("scheduled_date", win.End()),
		},
		Order: &core.DBOrdering{Field: "scheduled_date", Ascending: true},
	})
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(recs))
	for _, rec := range recs {
		date, ok := rec.Time("scheduled_date")
		if !ok {
			continue
		}
		events = append(events, Event{
			ID:          rec.String("id"),
			Title:       rec.String("title"),
			Date:        date,
			Type:        s.typ,
			Location:    rec.NullString("location"),
			IsOnline:    rec.Bool("is_online"),
			OnlineLink:  rec.NullString("online_link"),
			Description: rec.NullString("description"),
			Link:        null.StringFrom(bibleSchoolRoute),
		})
	}
	return events, nil
}

// LessonSource adapts scheduled course lessons. Lesson titles are composed
// with the parent course's title, and a lesson counts as online when it
// carries a meeting link.
type LessonSource struct {
	qs core.QueryService
}

var _ Source = (*LessonSource)(nil)

func NewLessonSource(qs core.QueryService) *LessonSource {
	return &LessonSource{qs: qs}
}

func (s *LessonSource) Name() string { return "course_lessons" }

func (s *LessonSource) Events(ctx context.Context, win MonthWindow) ([]Event, error) {
	recs, err := s.qs.Select(ctx, core.Query{
		Table: tableLessons,
		Filters: []core.Filter{
			core.Gte("scheduled_date", win.Start()),
			core.Lte("scheduled_date", win.End()),
		},
		Order: &core.DBOrdering{Field: "scheduled_date", Ascending: true},
	})
	if err != nil {
		return nil, err
	}

	courseTitles := make(map[string]string)
	events := make([]Event, 0, len(recs))
	for _, rec := range recs {
		date, ok := rec.Time("scheduled_date")
		if !ok {
			continue // lessons without a scheduled_date are not calendar items
		}

		courseID := rec.String("course_id")
		title := rec.String("title")
		if courseTitle, err := s.courseTitle(ctx, courseID, courseTitles); err == nil && courseTitle != "" {
			title = courseTitle + ": " + title
		}

		meetingLink := rec.NullString("meeting_link")
		events = append(events, Event{
			ID:          rec.String("id"),
			Title:       title,
			Date:        date,
			Type:        TypeCourse,
			IsOnline:    meetingLink.Valid,
			OnlineLink:  meetingLink,
			Description: rec.NullString("description"),
			Link:        null.StringFrom(fmt.Sprintf("/courses/%s/lessons/%s", courseID, rec.String("id"))),
		})
	}
	return events, nil
}

func (s *LessonSource) courseTitle(ctx context.Context, courseID string, cache map[string]string) (string, error) {
	if title, ok := cache[courseID]; ok {
		return title, nil
	}
	recs, err := s.qs.Select(ctx, core.Query{
		Table:   tableCourses,
		Filters: []core.Filter{core.Eq("id", courseID)},
		Limit:   1,
	})
	if err != nil {
		return "", err
	}
	var title string
	if len(recs) > 0 {
		title = recs[0].String("title")
	}
	cache[courseID] = title
	return title, nil
}

// QuizSource adapts active quizzes. The backend stores no due date, so the
// record-creation timestamp stands in as the calendar date.
type QuizSource struct {
	qs core.QueryService
}

var _ Source = (*QuizSource)(nil)

func NewQuizSource(qs core.QueryService) *QuizSource {
	return &QuizSource{qs: qs}
}

func (s *QuizSource) Name() string { return "quizzes" }

func (s *QuizSource) Events(ctx context.Context, win MonthWindow) ([]Event, error) {
	recs, err := s.qs.Select(ctx, core.Query{
		Table: tableQuizzes,
		Filters: []core.Filter{
			core.Eq("is_active", true),
			core.Gte("created_at", win.Start()),
			core.Lte("created_at", win.End()),
		},
		Order: &core.DBOrdering{Field: "created_at", Ascending: true},
	})
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(recs))
	for _, rec := range recs {
		date, ok := rec.Time("created_at")
		if !ok {
			continue
		}
		id := rec.String("id")
		events = append(events, Event{
			ID:          id,
			Title:       "Quiz: " + rec.String("title"),
			Date:        date,
			Type:        TypeQuiz,
			IsOnline:    true,
			Description: rec.NullString("description"),
			Link:        null.StringFrom(quizLink(rec.String("quiz_type"), rec.String("course_id"), id)),
		})
	}
	return events, nil
}

// quizLink routes a quiz to its section; unrecognized quiz types fall back
// to the generic quiz route instead of failing.
func quizLink(quizType, courseID, id string) string {
	switch quizType {
	case "course":
		return fmt.Sprintf("/courses/%s/quizzes/%s", courseID, id)
	case "bible_school":
		return fmt.Sprintf("/bible-school/quizzes/%s", id)
	case "program":
		return fmt.Sprintf("/programs/quizzes/%s", id)
	default:
		return "/quizzes/" + id
	}
}
