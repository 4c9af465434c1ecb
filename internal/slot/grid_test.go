package slot

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDailySlots_Shape(t *testing.T) {
	slots := GenerateDailySlots()

	require.Len(t, slots, 18)
	assert.Equal(t, "8-00", slots[0].ID)
	assert.Equal(t, TimeOfDay{Hour: 8}, slots[0].Start)
	assert.Equal(t, TimeOfDay{Hour: 8, Minute: 30}, slots[0].End)

	last := slots[len(slots)-1]
	assert.Equal(t, "16-30", last.ID)
	assert.Equal(t, TimeOfDay{Hour: 17}, last.End)
}

func TestGenerateDailySlots_AscendingAndUnique(t *testing.T) {
	slots := GenerateDailySlots()
	seen := make(map[string]bool)

	for i, s := range slots {
		assert.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true

		startMin := s.Start.Hour*60 + s.Start.Minute
		endMin := s.End.Hour*60 + s.End.Minute
		assert.Equal(t, 30, endMin-startMin, "slot %s is not 30 minutes", s.ID)

		if i > 0 {
			prev := slots[i-1]
			assert.Equal(t, prev.End, s.Start, "gap between %s and %s", prev.ID, s.ID)
		}
	}
}

func TestGenerateDailySlots_FreshCopy(t *testing.T) {
	a := GenerateDailySlots()
	a[0].ID = "mutated"

	b := GenerateDailySlots()
	assert.Equal(t, "8-00", b[0].ID)
}

func TestParseID(t *testing.T) {
	tests := []struct {
		id      string
		want    TimeOfDay
		wantErr bool
	}{
		{id: "9-00", want: TimeOfDay{Hour: 9}},
		{id: "14-30", want: TimeOfDay{Hour: 14, Minute: 30}},
		{id: "16-30", want: TimeOfDay{Hour: 16, Minute: 30}},
		{id: "17-00", wantErr: true},
		{id: "7-30", wantErr: true},
		{id: "9-15", wantErr: true},
		{id: "nine", wantErr: true},
		{id: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := ParseID(tt.id)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidID))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseID_RoundTripsTemplate(t *testing.T) {
	for _, s := range GenerateDailySlots() {
		start, err := ParseID(s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.Start, start)
	}
}

func TestTimeOfDayDisplay(t *testing.T) {
	assert.Equal(t, "9:00 AM", TimeOfDay{Hour: 9}.Display())
	assert.Equal(t, "12:30 PM", TimeOfDay{Hour: 12, Minute: 30}.Display())
	assert.Equal(t, "4:30 PM", TimeOfDay{Hour: 16, Minute: 30}.Display())
	assert.Equal(t, "12:00 AM", TimeOfDay{}.Display())
	assert.Equal(t, "5:00 PM", FormatClock(17, 0))
}

func TestPartition(t *testing.T) {
	var all []Availability
	for _, s := range GenerateDailySlots() {
		all = append(all, Availability{TimeSlot: s, Available: true})
	}

	morning, afternoon := Partition(all)
	assert.Len(t, morning, 8)
	assert.Len(t, afternoon, 10)
	assert.Equal(t, "11-30", morning[len(morning)-1].ID)
	assert.Equal(t, "12-00", afternoon[0].ID)
}

func TestBookable(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 45, 0, 0, time.UTC)

	assert.True(t, Bookable(now, now, 30), "today")
	assert.False(t, Bookable(now.AddDate(0, 0, -1), now, 30), "yesterday")
	assert.True(t, Bookable(now.AddDate(0, 0, 30), now, 30), "horizon edge")
	assert.False(t, Bookable(now.AddDate(0, 0, 31), now, 30), "beyond horizon")
	assert.True(t, Bookable(now.AddDate(1, 0, 0), now, 0), "no horizon")
}

func TestAtAndSameDay(t *testing.T) {
	date := time.Date(2025, 6, 10, 23, 59, 59, 999, time.UTC)
	got := At(date, TimeOfDay{Hour: 9, Minute: 30})

	assert.Equal(t, time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC), got)
	assert.True(t, SameDay(date, got))
	assert.False(t, SameDay(date, got.AddDate(0, 0, 1)))
}
