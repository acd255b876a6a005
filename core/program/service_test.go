package program

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

func seedPrograms(qs *memoryqs.Service) {
	qs.Load("programs",
		core.Record{"id": "p1", "title": "Emerging Leaders", "status": StatusOpen, "start_date": time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)},
		core.Record{"id": "p2", "title": "Residency", "status": StatusOpen, "is_residency": true, "start_date": time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)},
		core.Record{"id": "p3", "title": "Alumni Track", "status": StatusClosed, "start_date": time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)},
	)
}

func TestOpenPrograms(t *testing.T) {
	svc, qs, _ := setup(t)
	seedPrograms(qs)

	programs, err := svc.Open(context.Background())
	assert.NoError(t, err)
	if assert.Len(t, programs, 2) {
		// soonest start first
		assert.Equal(t, "p2", programs[0].ID)
		assert.Equal(t, "p1", programs[1].ID)
	}
}

func TestGetProgram(t *testing.T) {
	svc, qs, _ := setup(t)
	seedPrograms(qs)

	prog, err := svc.Get(context.Background(), "p1")
	assert.NoError(t, err)
	assert.Equal(t, "Emerging Leaders", prog.Title)

	_, err = svc.Get(context.Background(), "nope")
	assert.Equal(t, ErrNotFound, errors.Cause(err))
}

func TestApply(t *testing.T) {
	svc, qs, mailRec := setup(t)
	seedPrograms(qs)

	na := NewApplication{
		FullName:   "Amani Jelani",
		Email:      "Amani@Example.com",
		Motivation: "I want to grow as a servant leader and serve my local community better.",
	}
	app, err := svc.Apply(context.Background(), "p1", na)
	assert.NoError(t, err)
	assert.NotEmpty(t, app.ID)
	assert.Equal(t, ApplicationReceived, app.Status)
	assert.Equal(t, "amani@example.com", app.Email, "emails are normalized")

	if assert.Len(t, mailRec.sent, 1) {
		assert.Contains(t, mailRec.sent[0].Subject, "Emerging Leaders")
	}
}

func TestApplyValidation(t *testing.T) {
	svc, qs, mailRec := setup(t)
	seedPrograms(qs)

	_, err := svc.Apply(context.Background(), "p1", NewApplication{
		FullName:   "A",
		Email:      "not-an-email",
		Motivation: "too short",
	})
	assert.Error(t, err)
	assert.Empty(t, mailRec.sent)
}

func TestApplyClosedProgram(t *testing.T) {
	svc, qs, _ := setup(t)
	seedPrograms(qs)

	na := NewApplication{
		FullName:   "Amani Jelani",
		Email:      "amani@example.com",
		Motivation: "I want to grow as a servant leader and serve my local community better.",
	}
	_, err := svc.Apply(context.Background(), "p3", na)
	assert.Equal(t, ErrClosed, errors.Cause(err))
}

func TestApplyPastDeadline(t *testing.T) {
	svc, qs, _ := setup(t)
	qs.Load("programs", core.Record{
		"id": "p9", "title": "Late", "status": StatusOpen,
		"start_date": time.Now().UTC().AddDate(0, 1, 0),
		"deadline":   time.Now().UTC().AddDate(0, 0, -1),
	})

	_, err := svc.Apply(context.Background(), "p9", NewApplication{
		FullName:   "Amani Jelani",
		Email:      "amani@example.com",
		Motivation: "I want to grow as a servant leader and serve my local community better.",
	})
	assert.Equal(t, ErrClosed, errors.Cause(err))
}
