package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hackgods/clinic-booking/internal/appointment"
	"github.com/hackgods/clinic-booking/internal/catalog"
	"github.com/hackgods/clinic-booking/internal/countdown"
	redisclient "github.com/hackgods/clinic-booking/internal/redis"
	"github.com/hackgods/clinic-booking/internal/slot"
)

func listTreatmentsHandler(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, cat.Treatments())
	}
}

func listLocationsHandler(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, cat.Locations())
	}
}

func availabilityHandler(svc *appointment.Service, horizonDays int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := svc.Clock().Now()

		date, err := slot.ParseDate(r.URL.Query().Get("date"), now.Location())
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be formatted as YYYY-MM-DD")
			return
		}
		if !slot.Bookable(date, now, horizonDays) {
			writeError(w, http.StatusBadRequest, "date_not_bookable", "date is outside the booking window")
			return
		}

		slots, err := svc.AvailableSlots(r.Context(), date)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		morning, afternoon := slot.Partition(slots)
		writeJSON(w, http.StatusOK, AvailabilityResponse{
			Date:      date.Format(slot.DateLayout),
			Morning:   toSlotResponses(morning),
			Afternoon: toSlotResponses(afternoon),
		})
	}
}

func listAppointmentsHandler(svc *appointment.Service, cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, now, err := svc.Grouped(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := AppointmentListResponse{
			Active: make([]AppointmentResponse, 0, len(groups.Active)),
			Past:   make([]AppointmentResponse, 0, len(groups.Past)),
			AsOf:   now,
		}
		for _, a := range groups.Active {
			resp.Active = append(resp.Active, toAppointmentResponse(a, cat, now))
		}
		for _, a := range groups.Past {
			resp.Past = append(resp.Past, toAppointmentResponse(a, cat, now))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func getAppointmentHandler(svc *appointment.Service, cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := appointmentID(w, r)
		if !ok {
			return
		}

		appt, err := svc.GetAppointment(r.Context(), id)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(*appt, cat, svc.Clock().Now()))
	}
}

func cancelAppointmentHandler(svc *appointment.Service, cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := appointmentID(w, r)
		if !ok {
			return
		}

		appt, err := svc.Cancel(r.Context(), id)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, CancelResponse{
			Message:     appointment.MessageCancelled,
			Appointment: toAppointmentResponse(*appt, cat, svc.Clock().Now()),
		})
	}
}

func countdownHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := appointmentID(w, r)
		if !ok {
			return
		}

		appt, err := svc.GetAppointment(r.Context(), id)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		st, err := countdown.Compute(*appt, svc.Clock().Now())
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid_time_slot", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, CountdownResponse{
			AppointmentID:    appt.ID,
			Start:            st.Start,
			RemainingSeconds: int64(st.Remaining / time.Second),
			Progress:         st.Progress,
			Due:              st.Due,
			Label:            st.Label,
			Class:            string(st.Class),
			ComputedAt:       st.ComputedAt,
		})
	}
}

func appointmentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func handleAppointmentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func handleCommitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appointment.ErrUnknownSlot):
		writeError(w, http.StatusBadRequest, "unknown_time_slot", err.Error())
	case errors.Is(err, appointment.ErrSlotTaken):
		writeError(w, http.StatusConflict, "slot_taken", appointment.MessageSlotTaken)
	case errors.Is(err, appointment.ErrSlotBeingBooked),
		errors.Is(err, redisclient.ErrLockNotAcquired):
		writeError(w, http.StatusConflict, "slot_being_booked", "slot is currently being booked, please retry shortly")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

var statusLabels = map[appointment.AppointmentStatus]string{
	appointment.StatusScheduled: "Scheduled",
	appointment.StatusCancelled: "Cancelled",
	appointment.StatusCompleted: "Completed",
}

func toSlotResponses(slots []slot.Availability) []SlotResponse {
	out := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, SlotResponse{
			ID:        s.ID,
			StartTime: s.Start.String(),
			EndTime:   s.End.String(),
			Label:     s.Start.Display(),
			Available: s.Available,
		})
	}
	return out
}

func toAppointmentResponse(a appointment.Appointment, cat *catalog.Catalog, now time.Time) AppointmentResponse {
	display := appointment.EffectiveStatus(a, now)
	resp := AppointmentResponse{
		ID:            a.ID,
		TreatmentID:   a.TreatmentID,
		TreatmentName: cat.TreatmentName(a.TreatmentID),
		LocationID:    a.LocationID,
		LocationName:  cat.LocationName(a.LocationID),
		Date:          a.Date.Format(slot.DateLayout),
		TimeSlotID:    a.TimeSlotID,
		Status:        string(a.Status),
		DisplayStatus: string(display),
		StatusLabel:   statusLabels[display],
		Class:         string(appointment.Classify(a, now)),
		PatientName:   a.PatientName,
		PatientEmail:  a.PatientEmail,
		PatientPhone:  a.PatientPhone,
		Notes:         a.Notes,
		CreatedAt:     a.CreatedAt,
	}
	if start, err := slot.ParseID(a.TimeSlotID); err == nil {
		resp.StartTime = start.Display()
	}
	return resp
}
