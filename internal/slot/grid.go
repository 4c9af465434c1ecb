package slot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DayStartHour = 8  // first slot starts at 08:00
	DayEndHour   = 17 // last slot ends at 17:00
	Length       = 30 * time.Minute
)

var ErrInvalidID = errors.New("invalid slot id")

// TimeOfDay is a wall-clock hour and minute without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%d:%02d", t.Hour, t.Minute)
}

// Display renders the time as a 12-hour clock, e.g. "9:00 AM" or "12:30 PM".
func (t TimeOfDay) Display() string {
	return FormatClock(t.Hour, t.Minute)
}

// FormatClock formats a 24-hour time on a 12-hour clock.
func FormatClock(hour, minute int) string {
	h := hour % 12
	if h == 0 {
		h = 12
	}
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", h, minute, suffix)
}

func (t TimeOfDay) add(d time.Duration) TimeOfDay {
	total := t.Hour*60 + t.Minute + int(d/time.Minute)
	return TimeOfDay{Hour: total / 60, Minute: total % 60}
}

// TimeSlot is one bookable half hour of the business day. It carries no date
// and no availability; both are supplied per query.
type TimeSlot struct {
	ID    string
	Start TimeOfDay
	End   TimeOfDay
}

// Morning reports whether the slot starts before noon.
func (s TimeSlot) Morning() bool {
	return s.Start.Hour < 12
}

// GenerateDailySlots returns the daily template: 18 half-hour slots covering
// [08:00, 17:00) in ascending order.
func GenerateDailySlots() []TimeSlot {
	slots := make([]TimeSlot, 0, (DayEndHour-DayStartHour)*2)
	for hour := DayStartHour; hour < DayEndHour; hour++ {
		for _, minute := range []int{0, 30} {
			start := TimeOfDay{Hour: hour, Minute: minute}
			slots = append(slots, TimeSlot{
				ID:    FormatID(start),
				Start: start,
				End:   start.add(Length),
			})
		}
	}
	return slots
}

// FormatID encodes a start time as a slot id ("9-00", "14-30").
func FormatID(start TimeOfDay) string {
	return fmt.Sprintf("%d-%02d", start.Hour, start.Minute)
}

// ParseID decodes a slot id back into its start time. Only ids that belong to
// the daily template are accepted.
func ParseID(id string) (TimeOfDay, error) {
	hourPart, minutePart, ok := strings.Cut(id, "-")
	if !ok {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	if hour < DayStartHour || hour >= DayEndHour {
		return TimeOfDay{}, fmt.Errorf("%w: %q outside business hours", ErrInvalidID, id)
	}

	switch minutePart {
	case "00":
		return TimeOfDay{Hour: hour}, nil
	case "30":
		return TimeOfDay{Hour: hour, Minute: 30}, nil
	default:
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
}

// Availability is a template slot tagged with whether it can still be booked
// on a particular date.
type Availability struct {
	TimeSlot
	Available bool
}

// Partition splits resolved slots into morning (start before 12:00) and
// afternoon groups, preserving order.
func Partition(slots []Availability) (morning, afternoon []Availability) {
	for _, s := range slots {
		if s.Morning() {
			morning = append(morning, s)
		} else {
			afternoon = append(afternoon, s)
		}
	}
	return morning, afternoon
}
