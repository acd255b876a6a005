package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestViewLoadGenerations(t *testing.T) {
	v := NewView(2024, time.March)

	v, gen1 := v.StartLoad()
	v, gen2 := v.StartLoad()
	assert.NotEqual(t, gen1, gen2)

	stale := []Event{{ID: "old", Type: TypeEvent}}
	fresh := []Event{{ID: "new", Type: TypeEvent}}

	// the slower, older load settles last but must not win
	v = v.FinishLoad(gen2, fresh)
	v = v.FinishLoad(gen1, stale)

	assert.False(t, v.Loading)
	if assert.Len(t, v.Events, 1) {
		assert.Equal(t, "new", v.Events[0].ID)
	}
}

func TestViewSelectMonthInvalidatesInFlightLoad(t *testing.T) {
	v := NewView(2024, time.March)
	v, gen := v.StartLoad()

	v = v.SelectMonth(2024, time.April)
	v = v.FinishLoad(gen, []Event{{ID: "march-stragglers", Type: TypeEvent}})

	assert.Equal(t, time.April, v.Month)
	assert.Empty(t, v.Events, "a stale month must not overwrite a newer one")
}

func TestViewSelectMonthResets(t *testing.T) {
	v := NewView(2024, time.March)
	v = v.SelectDay(10)
	v, gen := v.StartLoad()
	v = v.FinishLoad(gen, []Event{{ID: "e1", Type: TypeEvent, Date: marchDate(10, 9)}})

	v = v.SelectMonth(2024, time.February)

	assert.Equal(t, 0, v.SelectedDay)
	assert.False(t, v.Loading)
	assert.Empty(t, v.Events)
}

func TestViewSelectDay(t *testing.T) {
	v := NewView(2024, time.February) // 29 days

	v = v.SelectDay(29)
	assert.Equal(t, 29, v.SelectedDay)

	v = v.SelectDay(29) // selecting again toggles off
	assert.Equal(t, 0, v.SelectedDay)

	v = v.SelectDay(30) // out of range clears
	assert.Equal(t, 0, v.SelectedDay)

	v = v.SelectDay(0)
	assert.Equal(t, 0, v.SelectedDay)
}
