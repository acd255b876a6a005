package calendar

import (
	"context"
	"fmt"

	"github.com/tmukana/uongozi/core"
)

// participation tables
const (
	tableRegistrations  = "event_registrations"
	tableParticipations = "bible_school_participations"
)

// AttendanceSet marks which events the current user is registered for.
// Keys are namespaced by event type so a study, class and meeting sharing a
// coincidentally equal id never collide.
type AttendanceSet map[Key]struct{}

func (s AttendanceSet) Attending(e Event) bool {
	_, ok := s[e.Key()]
	return ok
}

func (s AttendanceSet) Keys() []Key {
	keys := make([]Key, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys
}

// Overlay cross-references a signed-in user's registrations and Bible-school
// participations against the aggregated events. It only ever affects display
// (an "attending" badge), never filtering.
type Overlay struct {
	qs     core.QueryService
	logger core.Logger
}

func NewOverlay(qs core.QueryService, logger core.Logger) *Overlay {
	return &Overlay{qs: qs, logger: logger}
}

// AttendanceSet builds the attending set for one user. Guests (empty userID)
// get an empty set, and any lookup failure degrades to "no attendance data"
// for that bucket instead of blocking the calendar.
func (o *Overlay) AttendanceSet(ctx context.Context, userID string) AttendanceSet {
	set := make(AttendanceSet)
	if userID == "" {
		return set
	}

	regs, err := o.qs.Select(ctx, core.Query{
		Table:   tableRegistrations,
		Filters: []core.Filter{core.Eq("user_id", userID)},
	})
	if err != nil {
		o.logger.Error(fmt.Sprintf("calendar: event registrations lookup failed: %v", err), err)
	} else {
		for _, rec := range regs {
			if id := rec.String("event_id"); id != "" {
				set[Key{Type: TypeEvent, ID: id}] = struct{}{}
			}
		}
	}

	parts, err := o.qs.Select(ctx, core.Query{
		Table:   tableParticipations,
		Filters: []core.Filter{core.Eq("user_id", userID)},
	})
	if err != nil {
		o.logger.Error(fmt.Sprintf("calendar: bible school participations lookup failed: %v", err), err)
		return set
	}
	for _, rec := range parts {
		if key, ok := participationKey(rec); ok {
			set[key] = struct{}{}
		}
	}
	return set
}

// participationKey resolves the single populated foreign key on a shared
// participation row. Rows populating zero or more than one of the three
// columns are skipped.
func participationKey(rec core.Record) (Key, bool) {
	var keys []Key
	if id := rec.String("study_id"); id != "" {
		keys = append(keys, Key{Type: TypeStudy, ID: id})
	}
	if id := rec.String("class_id"); id != "" {
		keys = append(keys, Key{Type: TypeClass, ID: id})
	}
	if id := rec.String("meeting_id"); id != "" {
		keys = append(keys, Key{Type: TypeMeeting, ID: id})
	}
	if len(keys) != 1 {
		return Key{}, false
	}
	return keys[0], true
}
