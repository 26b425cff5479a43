package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	apierrors "inmobiliaria/internal/errors"
	"inmobiliaria/internal/repository"
	"inmobiliaria/internal/service"

	"github.com/gorilla/mux"
)

type UserAppointmentHandler struct {
	Appointments *service.AppointmentService
	Availability *service.AvailabilityService
	Listings     service.ListingClient
}

func NewUserAppointmentHandler(appointments *service.AppointmentService, availability *service.AvailabilityService, listings service.ListingClient) *UserAppointmentHandler {
	return &UserAppointmentHandler{
		Appointments: appointments,
		Availability: availability,
		Listings:     listings,
	}
}

// writeError maps service errors onto the wire taxonomy.
func writeError(w http.ResponseWriter, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(apiErr.Status)
		json.NewEncoder(w).Encode(ErrorResponse{Error: apiErr.Code, Detail: apiErr.Detail})
		return
	}
	if errors.Is(err, repository.ErrNotFound) {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(ErrorResponse{Error: apierrors.CodeStoreError, Detail: "unexpected error"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func (h *UserAppointmentHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Start == "" {
		http.Error(w, "start date is required", http.StatusBadRequest)
		return
	}
	if req.AgentID == 0 {
		http.Error(w, "agent_id is required", http.StatusBadRequest)
		return
	}
	days, err := h.Availability.GetAvailability(req.AgentID, req.Start, req.End)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

// CreateOrUpdateAppointment books a slot, or reschedules/edits when the
// payload carries an appointment_id.
func (h *UserAppointmentHandler) CreateOrUpdateAppointment(w http.ResponseWriter, r *http.Request) {
	var form BookingForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	req, err := form.ToRequest()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if form.AppointmentID != nil {
		resp, err := h.Appointments.Update(*form.AppointmentID, req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, BookingResponse{ID: resp.ID, Date: resp.Date, Time: resp.Time, Status: resp.Status})
		return
	}

	resp, err := h.Appointments.Create(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, BookingResponse{ID: resp.ID, Date: resp.Date, Time: resp.Time, Status: resp.Status})
}

func (h *UserAppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	resp, err := h.Appointments.GetByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *UserAppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	resp, err := h.Appointments.Cancel(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Appointment cancelled",
		"status":  resp.Status,
	})
}

// GetListing proxies the external listing service for the booking UI.
func (h *UserAppointmentHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	listing, err := h.Listings.GetListing(id)
	if err != nil {
		http.Error(w, "Listing not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}
