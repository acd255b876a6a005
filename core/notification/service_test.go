package notification

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/tmukana/uongozi/core"
	memoryqs "github.com/tmukana/uongozi/storage/query/memory"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func TestCounts(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

	qs := memoryqs.Open()
	qs.Load("forum_notifications",
		core.Record{"id": "n1", "user_id": "u1", "read": false},
		core.Record{"id": "n2", "user_id": "u1", "read": true},
		core.Record{"id": "n3", "user_id": "u2", "read": false},
	)
	qs.Load("event_registrations",
		core.Record{"id": "r1", "user_id": "u1", "event_id": "e1", "event_date": now.AddDate(0, 0, 3)},
		core.Record{"id": "r2", "user_id": "u1", "event_id": "e2", "event_date": now.AddDate(0, 0, -3)}, // past
	)
	qs.Load("program_applications",
		core.Record{"id": "a1", "user_id": "u1", "status": "received"},
		core.Record{"id": "a2", "user_id": "u1", "status": "accepted"},
	)

	svc := NewService(qs, nopLogger{})
	svc.clock = func() time.Time { return now }

	counts := svc.Counts(context.Background(), "u1")
	assert.Equal(t, 1, counts.Forum)
	assert.Equal(t, 1, counts.UpcomingEvents)
	assert.Equal(t, 1, counts.Applications)
	assert.Equal(t, 3, counts.Total())

	assert.Zero(t, svc.Counts(context.Background(), ""), "guests have no badges")
}

func TestCountsDegradePerSource(t *testing.T) {
	qs := memoryqs.Open()
	qs.Load("program_applications",
		core.Record{"id": "a1", "user_id": "u1", "status": "received"},
	)
	qs.FailWith("forum_notifications", errors.New("backend down"))

	svc := NewService(qs, nopLogger{})
	counts := svc.Counts(context.Background(), "u1")

	assert.Equal(t, 0, counts.Forum, "failed badge degrades to zero")
	assert.Equal(t, 1, counts.Applications, "other badges still count")
}
