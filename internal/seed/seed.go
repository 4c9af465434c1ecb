package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"

	"github.com/hackgods/clinic-booking/internal/appointment"
	"github.com/hackgods/clinic-booking/internal/booking"
	"github.com/hackgods/clinic-booking/internal/catalog"
	"github.com/hackgods/clinic-booking/internal/slot"
)

type Options struct {
	Now         time.Time
	FakeCount   int    // extra generated bookings on top of the samples
	RandomSeed  uint64 // 0 picks a random seed
	HorizonDays int
}

var sampleNotes = []string{
	"First time visit",
	"Follow-up appointment",
	"Bring previous test results",
	"Prefers a morning reminder call",
	"",
}

// SampleRequests returns the two demo appointments: two days out at 09:00 and
// five days out at 14:30.
func SampleRequests(now time.Time) []appointment.Request {
	today := slot.DateOf(now)
	return []appointment.Request{
		{
			TreatmentID:  "1",
			LocationID:   "1",
			Date:         today.AddDate(0, 0, 2),
			TimeSlotID:   "9-00",
			PatientName:  "John Doe",
			PatientEmail: "john@example.com",
			PatientPhone: "(555) 123-4567",
			Notes:        "First time visit",
		},
		{
			TreatmentID:  "3",
			LocationID:   "2",
			Date:         today.AddDate(0, 0, 5),
			TimeSlotID:   "14-30",
			PatientName:  "Jane Smith",
			PatientEmail: "jane@example.com",
			PatientPhone: "(555) 987-6543",
			Notes:        "Follow-up appointment",
		},
	}
}

// FakeRequest builds a random booking request within the horizon using the
// catalog's ids.
func FakeRequest(f *gofakeit.Faker, cat *catalog.Catalog, template []slot.TimeSlot, now time.Time, horizonDays int) appointment.Request {
	if horizonDays <= 0 {
		horizonDays = 30
	}
	treatments := cat.Treatments()
	locations := cat.Locations()

	return appointment.Request{
		TreatmentID:  treatments[f.Number(0, len(treatments)-1)].ID,
		LocationID:   locations[f.Number(0, len(locations)-1)].ID,
		Date:         slot.DateOf(now).AddDate(0, 0, f.Number(1, horizonDays)),
		TimeSlotID:   template[f.Number(0, len(template)-1)].ID,
		PatientName:  f.Name(),
		PatientEmail: f.Email(),
		PatientPhone: f.Phone(),
		Notes:        sampleNotes[f.Number(0, len(sampleNotes)-1)],
	}
}

// Populate books the sample appointments and then opts.FakeCount generated
// ones. Generated requests that land on a taken slot are retried a few times
// and then skipped.
func Populate(ctx context.Context, b booking.Booker, cat *catalog.Catalog, opts Options, logger *zap.Logger) ([]appointment.Appointment, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	var created []appointment.Appointment
	for _, req := range SampleRequests(opts.Now) {
		appt, err := b.Book(ctx, req)
		if err != nil {
			return created, fmt.Errorf("seed sample appointment: %w", err)
		}
		created = append(created, *appt)
	}

	if opts.FakeCount <= 0 {
		return created, nil
	}

	f := gofakeit.New(opts.RandomSeed)
	template := slot.GenerateDailySlots()
	const attempts = 5

	for i := 0; i < opts.FakeCount; i++ {
		for try := 0; try < attempts; try++ {
			appt, err := b.Book(ctx, FakeRequest(f, cat, template, opts.Now, opts.HorizonDays))
			if errors.Is(err, appointment.ErrSlotTaken) || errors.Is(err, appointment.ErrSlotBeingBooked) {
				continue
			}
			if err != nil {
				return created, fmt.Errorf("seed fake appointment: %w", err)
			}
			created = append(created, *appt)
			break
		}
	}

	logger.Info("demo data seeded", zap.Int("appointments", len(created)))
	return created, nil
}
