package calendar

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildGridShape(t *testing.T) {
	tests := []struct {
		year     int
		month    time.Month
		wantLead int // weekday index of the 1st, Sunday-start
		wantDays int
	}{
		{2024, time.March, 5, 31},     // 2024-03-01 is a Friday
		{2024, time.September, 0, 30}, // 2024-09-01 is a Sunday
		{2021, time.February, 1, 28},  // 2021-02-01 is a Monday
		{2024, time.February, 4, 29},  // leap month, 1st is a Thursday
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d-%d", tt.year, tt.month), func(t *testing.T) {
			grid := BuildGrid(NewMonthWindow(tt.year, tt.month), nil)

			assert.Len(t, grid.Cells, tt.wantLead+tt.wantDays)
			for i := 0; i < tt.wantLead; i++ {
				assert.Nil(t, grid.Cells[i], "leading cells are placeholders")
			}
			for day := 1; day <= tt.wantDays; day++ {
				cell := grid.Cells[tt.wantLead+day-1]
				if assert.NotNil(t, cell) {
					assert.Equal(t, day, cell.Day)
				}
			}
		})
	}
}

func TestBuildGridBucketsByDay(t *testing.T) {
	events := []Event{
		{ID: "1", Type: TypeStudy, Date: marchDate(10, 9)},
		{ID: "2", Type: TypeEvent, Date: marchDate(10, 18)}, // same day, different time
		{ID: "3", Type: TypeClass, Date: marchDate(11, 9)},
		// different month: never bucketed even if day number matches
		{ID: "4", Type: TypeEvent, Date: time.Date(2024, time.April, 10, 9, 0, 0, 0, time.UTC)},
	}
	grid := BuildGrid(march, events)

	lead := int(march.Start().Weekday())
	day10 := grid.Cells[lead+9]
	day11 := grid.Cells[lead+10]

	assert.Len(t, day10.Events, 2)
	assert.Len(t, day11.Events, 1)

	var total int
	for _, cell := range grid.Cells {
		if cell != nil {
			total += len(cell.Events)
		}
	}
	assert.Equal(t, 3, total, "the adjacent-month event is dropped")
}

func TestDayCellTruncation(t *testing.T) {
	tie := marchDate(10, 9)
	mk := func(n int) *DayCell {
		cell := &DayCell{Day: 10, Date: tie}
		for i := 0; i < n; i++ {
			cell.Events = append(cell.Events, Event{ID: fmt.Sprintf("%d", i), Type: TypeEvent, Date: tie})
		}
		return cell
	}

	tests := []struct {
		n            int
		wantVisible  int
		wantOverflow int
	}{
		{0, 0, 0},
		{1, 1, 0},
		{2, 2, 0}, // exactly at budget: no indicator
		{3, 2, 1},
		{7, 2, 5},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d", tt.n), func(t *testing.T) {
			cell := mk(tt.n)
			assert.Len(t, cell.Visible(), tt.wantVisible)
			assert.Equal(t, tt.wantOverflow, cell.Overflow())
		})
	}
}

func TestGridWeeks(t *testing.T) {
	grid := BuildGrid(march, nil) // 5 lead + 31 days = 36 cells
	weeks := grid.Weeks()

	assert.Len(t, weeks, 6)
	for _, week := range weeks {
		assert.Len(t, week, 7)
	}
	// trailing cells of the last week are padding
	last := weeks[len(weeks)-1]
	assert.NotNil(t, last[0])
	assert.Nil(t, last[6])
}
