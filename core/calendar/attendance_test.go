package calendar

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/tmukana/uongozi/core"
	memoryqs "github.com/tmukana/uongozi/storage/query/memory"
)

func TestAttendanceSetForUser(t *testing.T) {
	qs := memoryqs.Open()
	qs.Load("event_registrations",
		core.Record{"id": "r1", "user_id": "u1", "event_id": "e1"},
		core.Record{"id": "r2", "user_id": "u2", "event_id": "e2"}, // other user
	)
	qs.Load("bible_school_participations",
		core.Record{"id": "p1", "user_id": "u1", "class_id": "42"},
		core.Record{"id": "p2", "user_id": "u1", "study_id": "7"},
		core.Record{"id": "p3", "user_id": "u1", "study_id": "8", "class_id": "8"}, // malformed: two FKs
		core.Record{"id": "p4", "user_id": "u1"},                                  // malformed: no FK
	)

	set := NewOverlay(qs, nopLogger{}).AttendanceSet(context.Background(), "u1")

	assert.Len(t, set, 3)
	assert.Contains(t, set, Key{Type: TypeEvent, ID: "e1"})
	assert.Contains(t, set, Key{Type: TypeClass, ID: "42"})
	assert.Contains(t, set, Key{Type: TypeStudy, ID: "7"})

	// a class participation must not mark a study or meeting with the same id
	assert.NotContains(t, set, Key{Type: TypeStudy, ID: "42"})
	assert.NotContains(t, set, Key{Type: TypeMeeting, ID: "42"})

	assert.True(t, set.Attending(Event{ID: "42", Type: TypeClass}))
	assert.False(t, set.Attending(Event{ID: "42", Type: TypeMeeting}))
}

func TestAttendanceSetGuest(t *testing.T) {
	qs := memoryqs.Open()
	qs.Load("event_registrations", core.Record{"id": "r1", "user_id": "u1", "event_id": "e1"})

	set := NewOverlay(qs, nopLogger{}).AttendanceSet(context.Background(), "")
	assert.Empty(t, set, "guests have no attendance")
}

func TestAttendanceSetDegradesPerBucket(t *testing.T) {
	qs := memoryqs.Open()
	qs.Load("bible_school_participations",
		core.Record{"id": "p1", "user_id": "u1", "meeting_id": "m1"},
	)
	qs.FailWith("event_registrations", errors.New("backend down"))

	set := NewOverlay(qs, nopLogger{}).AttendanceSet(context.Background(), "u1")

	assert.Len(t, set, 1, "registration failures must not drop participations")
	assert.Contains(t, set, Key{Type: TypeMeeting, ID: "m1"})
}
