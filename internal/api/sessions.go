package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hackgods/clinic-booking/internal/appointment"
	"github.com/hackgods/clinic-booking/internal/booking"
	"github.com/hackgods/clinic-booking/internal/catalog"
	"github.com/hackgods/clinic-booking/internal/slot"
)

func openSessionHandler(reg *booking.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := reg.Open()
		s, err := reg.Get(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, toSessionResponse(id, s))
	}
}

func getSessionHandler(reg *booking.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r)
		if !ok {
			return
		}

		s, err := reg.Get(id)
		if err != nil {
			handleSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSessionResponse(id, s))
	}
}

// updateSessionHandler applies a partial draft update. Catalog ids, dates and
// slot ids are checked before anything is written; a slot that is already
// taken on the draft's date is refused with 409.
func updateSessionHandler(reg *booking.Registry, svc *appointment.Service, cat *catalog.Catalog, horizonDays int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r)
		if !ok {
			return
		}

		var patch SessionPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		s, err := reg.Update(id, func(s *booking.Session) error {
			return applyPatch(r, s, patch, svc, cat, horizonDays)
		})
		if err != nil {
			handleSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSessionResponse(id, s))
	}
}

func applyPatch(r *http.Request, s *booking.Session, p SessionPatch, svc *appointment.Service, cat *catalog.Catalog, horizonDays int) error {
	if p.TreatmentID != nil {
		if _, ok := cat.Treatment(*p.TreatmentID); !ok {
			return badRequest("unknown_treatment", catalog.UnknownTreatment)
		}
		s.SetTreatment(*p.TreatmentID)
	}
	if p.LocationID != nil {
		if _, ok := cat.Location(*p.LocationID); !ok {
			return badRequest("unknown_location", catalog.UnknownLocation)
		}
		s.SetLocation(*p.LocationID)
	}
	if p.Date != nil {
		if err := applyDate(s, *p.Date, svc, horizonDays); err != nil {
			return err
		}
	}
	if p.TimeSlotID != nil {
		if err := applySlot(r, s, *p.TimeSlotID, svc); err != nil {
			return err
		}
	}
	if p.Name != nil {
		s.SetName(*p.Name)
	}
	if p.Email != nil {
		s.SetEmail(*p.Email)
	}
	if p.Phone != nil {
		s.SetPhone(*p.Phone)
	}
	if p.Notes != nil {
		s.SetNotes(*p.Notes)
	}
	return nil
}

func applyDate(s *booking.Session, raw string, svc *appointment.Service, horizonDays int) error {
	if raw == "" {
		s.SetDate(time.Time{})
		return nil
	}

	now := svc.Clock().Now()
	date, err := slot.ParseDate(raw, now.Location())
	if err != nil {
		return badRequest("invalid_date", "date must be formatted as YYYY-MM-DD")
	}
	if !slot.Bookable(date, now, horizonDays) {
		return badRequest("date_not_bookable", "date is outside the booking window")
	}
	s.SetDate(date)
	return nil
}

func applySlot(r *http.Request, s *booking.Session, slotID string, svc *appointment.Service) error {
	if slotID == "" {
		s.SetTimeSlot("")
		return nil
	}
	if !svc.Resolver().Known(slotID) {
		return badRequest("unknown_time_slot", "time slot is not part of the daily schedule")
	}

	if !s.Date.IsZero() {
		slots, err := svc.AvailableSlots(r.Context(), s.Date)
		if err != nil {
			return err
		}
		for _, a := range slots {
			if a.ID == slotID && !a.Available {
				return &requestError{status: http.StatusConflict, code: "slot_taken", details: appointment.MessageSlotTaken}
			}
		}
	}

	s.SetTimeSlot(slotID)
	return nil
}

func commitSessionHandler(reg *booking.Registry, svc *appointment.Service, cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r)
		if !ok {
			return
		}

		appt, err := reg.Commit(r.Context(), id)
		if err != nil {
			var verr *booking.ValidationError
			switch {
			case errors.As(err, &verr):
				writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
					Error:   "validation_failed",
					Details: verr.Message(),
					Missing: verr.Missing,
				})
			case errors.Is(err, booking.ErrSessionNotFound):
				handleSessionError(w, err)
			default:
				handleCommitError(w, err)
			}
			return
		}

		writeJSON(w, http.StatusCreated, CommitResponse{
			Message:     appointment.MessageBooked,
			Appointment: toAppointmentResponse(*appt, cat, svc.Clock().Now()),
		})
	}
}

func closeSessionHandler(reg *booking.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r)
		if !ok {
			return
		}

		if err := reg.Close(id); err != nil {
			handleSessionError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_session_id", "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func handleSessionError(w http.ResponseWriter, err error) {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		writeError(w, reqErr.status, reqErr.code, reqErr.details)
	case errors.Is(err, booking.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func toSessionResponse(id uuid.UUID, s booking.Session) SessionResponse {
	resp := SessionResponse{
		ID:          id,
		TreatmentID: s.TreatmentID,
		LocationID:  s.LocationID,
		TimeSlotID:  s.TimeSlotID,
		Name:        s.PatientName,
		Email:       s.PatientEmail,
		Phone:       s.PatientPhone,
		Notes:       s.Notes,
		Step:        s.Step(),
		IsComplete:  s.IsComplete(),
		CanCommit:   s.CanCommit(),
	}
	if !s.Date.IsZero() {
		resp.Date = s.Date.Format(slot.DateLayout)
	}
	return resp
}
