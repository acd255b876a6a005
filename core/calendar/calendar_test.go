package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// nopLogger satisfies core.Logger for tests.
type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func TestNewMonthWindow(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		days  int
	}{
		{"march 2024", 2024, time.March, 31},
		{"february leap", 2024, time.February, 29},
		{"february non leap", 2021, time.February, 28},
		{"april", 2024, time.April, 30},
		{"december", 2023, time.December, 31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			win := NewMonthWindow(tt.year, tt.month)
			assert.Equal(t, time.Date(tt.year, tt.month, 1, 0, 0, 0, 0, time.UTC), win.Start())
			assert.Equal(t, time.Date(tt.year, tt.month, tt.days, 23, 59, 59, 0, time.UTC), win.End())
			assert.Equal(t, tt.days, win.Days())
		})
	}
}

func TestMonthWindowContains(t *testing.T) {
	win := NewMonthWindow(2024, time.March)

	assert.True(t, win.Contains(win.Start()), "first instant is inclusive")
	assert.True(t, win.Contains(win.End()), "last instant is inclusive")
	assert.True(t, win.Contains(time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)))
	assert.False(t, win.Contains(time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC)))
	assert.False(t, win.Contains(time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)))
}

func TestEventTypeMeta(t *testing.T) {
	for _, typ := range []EventType{TypeEvent, TypeStudy, TypeClass, TypeMeeting, TypeCourse, TypeQuiz} {
		assert.True(t, typ.Valid())
		assert.NotEmpty(t, typ.Icon())
		assert.NotEmpty(t, typ.ColorClass())
	}
	assert.False(t, EventType("webinar").Valid())
}

func TestEventKey(t *testing.T) {
	// equal raw ids from different sources must not collide
	study := Event{ID: "42", Type: TypeStudy}
	class := Event{ID: "42", Type: TypeClass}
	assert.NotEqual(t, study.Key(), class.Key())
}
