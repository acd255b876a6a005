package mentorship

import (
	"context"
	"testing"

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

type mailRecorder struct {
	sent []*core.EmailMessage
}

func (m *mailRecorder) SendMessages(messages ...*core.EmailMessage) {
	m.sent = append(m.sent, messages...)
}

func setup(t *testing.T) (*Service, *memoryqs.Service, *mailRecorder) {
	t.Helper()
	core.InitValidators()
	qs := memoryqs.Open()
	rec := &mailRecorder{}
	return NewService(qs, rec, nopLogger{}), qs, rec
}

func TestMatchPicksLeastLoadedMentor(t *testing.T) {
	svc, qs, mailRec := setup(t)
	qs.Load("mentors",
		core.Record{"id": "m1", "name": "Baraka", "email": "baraka@example.com", "focus_area": "preaching", "capacity": 2, "active": true},
		core.Record{"id": "m2", "name": "Chiku", "email": "chiku@example.com", "focus_area": "preaching", "capacity": 2, "active": true},
		core.Record{"id": "m3", "name": "Dalila", "email": "dalila@example.com", "focus_area": "worship", "capacity": 5, "active": true},
		core.Record{"id": "m4", "name": "Enzi", "email": "enzi@example.com", "focus_area": "preaching", "capacity": 5, "active": false},
	)
	// m1 already carries one mentee; m2 is free
	qs.Load("mentorship_matches", core.Record{"id": "x1", "request_id": "old", "mentor_id": "m1"})
	qs.Load("mentorship_requests",
		core.Record{"id": "r1", "mentee_name": "Furaha", "mentee_email": "furaha@example.com", "focus_area": "preaching", "status": RequestPending},
	)

	match, err := svc.Match(context.Background(), "r1")
	assert.NoError(t, err)
	assert.Equal(t, "m2", match.MentorID)
	assert.Len(t, mailRec.sent, 2, "mentee and mentor are both notified")

	req, err := svc.getRequest(context.Background(), "r1")
	assert.NoError(t, err)
	assert.Equal(t, RequestMatched, req.Status)

	// matching again must refuse
	_, err = svc.Match(context.Background(), "r1")
	assert.Equal(t, ErrAlreadyMatched, errors.Cause(err))
}

func TestMatchNoCapacity(t *testing.T) {
	svc, qs, _ := setup(t)
	qs.Load("mentors",
		core.Record{"id": "m1", "name": "Baraka", "email": "baraka@example.com", "focus_area": "preaching", "capacity": 1, "active": true},
	)
	qs.Load("mentorship_matches", core.Record{"id": "x1", "request_id": "old", "mentor_id": "m1"})
	qs.Load("mentorship_requests",
		core.Record{"id": "r1", "mentee_name": "Furaha", "mentee_email": "furaha@example.com", "focus_area": "preaching", "status": RequestPending},
	)

	_, err := svc.Match(context.Background(), "r1")
	assert.Equal(t, ErrNoMentors, errors.Cause(err))
}

func TestRequestValidation(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.Request(context.Background(), NewRequest{MenteeName: "", MenteeEmail: "bad", FocusArea: ""})
	assert.Error(t, err)

	req, err := svc.Request(context.Background(), NewRequest{
		MenteeName:  "Furaha",
		MenteeEmail: "Furaha@Example.com",
		FocusArea:   "Preaching",
	})
	assert.NoError(t, err)
	assert.Equal(t, RequestPending, req.Status)
	assert.Equal(t, "furaha@example.com", req.MenteeEmail)
	assert.Equal(t, "preaching", req.FocusArea)
}
