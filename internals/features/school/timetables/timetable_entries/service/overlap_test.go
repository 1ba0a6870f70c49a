package service

import (
	"testing"

	"schoolku_backend/internals/features/school/timetables/timetable_entries/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name           string
		aS, aE, bS, bE string
		want           bool
	}{
		{"same slot", "08:00", "09:00", "08:00", "09:00", true},
		{"inner", "08:00", "10:00", "08:30", "09:00", true},
		{"straddles start", "07:30", "08:30", "08:00", "09:00", true},
		{"back to back", "08:00", "09:00", "09:00", "10:00", false},
		{"before", "07:00", "08:00", "08:00", "09:00", false},
		{"after", "10:00", "11:00", "08:00", "09:00", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.aS, tc.aE, tc.bS, tc.bE))
			assert.Equal(t, tc.want, Overlaps(tc.bS, tc.bE, tc.aS, tc.aE), "symmetric")
		})
	}
}

func TestGroupByDay(t *testing.T) {
	week := GroupByDay([]model.TimetableEntryModel{
		{TimetableEntryDayOfWeek: 1, TimetableEntryStartTime: "10:00"},
		{TimetableEntryDayOfWeek: 1, TimetableEntryStartTime: "08:00"},
		{TimetableEntryDayOfWeek: 5, TimetableEntryStartTime: "14:00"},
	})
	require.Len(t, week, 7)
	assert.Equal(t, 1, week[0].DayOfWeek)
	require.Len(t, week[0].Entries, 2)
	assert.Equal(t, "08:00", week[0].Entries[0].TimetableEntryStartTime)
	assert.Len(t, week[4].Entries, 1)
	assert.Empty(t, week[6].Entries)
}
