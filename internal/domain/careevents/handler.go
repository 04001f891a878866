package careevents

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"pet-care-records/internal/calendar"
	"pet-care-records/internal/middleware"
	"pet-care-records/internal/ports/permissions"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, access permissions.PetAccess) {
	r.Route("/pets/{petID}/care-events", func(er chi.Router) {
		er.Post("/", createHandler(svc, access))
		er.Get("/", listHandler(svc, access))
		er.Get("/{eventID}", getHandler(svc, access))
		er.Patch("/{eventID}", updateHandler(svc, access))
		er.Delete("/{eventID}", deleteHandler(svc, access))
	})
}

type recurrenceRequest struct {
	Pattern    string `json:"pattern"`
	DayOfMonth int    `json:"day_of_month,omitempty"`
	DayOfWeek  string `json:"day_of_week,omitempty"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date,omitempty"`
}

type createRequest struct {
	Type        string             `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Date        string             `json:"date"` // YYYY-MM-DD
	Time        string             `json:"time"` // HH:MM opcional
	IsRecurring bool               `json:"is_recurring"`
	Recurrence  *recurrenceRequest `json:"recurrence,omitempty"`
	Location    string             `json:"location"`
	Notes       string             `json:"notes"`
}

type updateRequest struct {
	Type        *string            `json:"type"`
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Date        *string            `json:"date"`
	Time        *string            `json:"time"`
	IsRecurring *bool              `json:"is_recurring"`
	Recurrence  *recurrenceRequest `json:"recurrence"`
	Location    *string            `json:"location"`
	Notes       *string            `json:"notes"`
}

type careEventResponse struct {
	ID          string              `json:"id"`
	PetID       string              `json:"pet_id"`
	Type        calendar.EventType  `json:"type"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Date        string              `json:"date,omitempty"`
	Time        string              `json:"time,omitempty"`
	IsRecurring bool                `json:"is_recurring"`
	Recurrence  *recurrenceResponse `json:"recurrence,omitempty"`
	RRule       string              `json:"rrule,omitempty"`
	Location    string              `json:"location,omitempty"`
	Notes       string              `json:"notes,omitempty"`
	CreatedBy   string              `json:"created_by"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type recurrenceResponse struct {
	Pattern    calendar.Pattern `json:"pattern"`
	DayOfMonth int              `json:"day_of_month,omitempty"`
	DayOfWeek  string           `json:"day_of_week,omitempty"`
	StartDate  string           `json:"start_date"`
	EndDate    string           `json:"end_date,omitempty"`
}

// createHandler godoc
// @Summary Crear evento de cuidado
// @Description Agenda un evento (vet_appointment, grooming, medication, vaccination). Owner o colaborador editor.
// @Tags care-events
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param payload body createRequest true "Evento; recurrence obligatorio si is_recurring"
// @Success 201 {object} careEventResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/care-events [post]
func createHandler(svc *Service, access permissions.PetAccess) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		if !authorize(w, access.CanWrite(r.Context(), petID, claims.UserID)) {
			return
		}

		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := CreateInput{
			Type:        req.Type,
			Title:       req.Title,
			Description: req.Description,
			Date:        req.Date,
			Time:        req.Time,
			IsRecurring: req.IsRecurring,
			Location:    req.Location,
			Notes:       req.Notes,
		}
		if req.Recurrence != nil {
			in.Recurrence = toRecurrenceInput(*req.Recurrence)
		}

		e, err := svc.Create(r.Context(), petID, claims.UserID, in)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toResponse(e))
	}
}

// listHandler godoc
// @Summary Listar eventos de cuidado de una mascota
// @Tags care-events
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {array} careEventResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/care-events [get]
func listHandler(svc *Service, access permissions.PetAccess) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		if !authorize(w, access.CanRead(r.Context(), petID, claims.UserID)) {
			return
		}

		items, err := svc.ListByPet(r.Context(), petID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]careEventResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getHandler(svc *Service, access permissions.PetAccess) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		if !authorize(w, access.CanRead(r.Context(), petID, claims.UserID)) {
			return
		}

		e, err := svc.GetByID(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil || e.PetID != petID {
			http.Error(w, "care event not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(e))
	}
}

func updateHandler(svc *Service, access permissions.PetAccess) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		if !authorize(w, access.CanWrite(r.Context(), petID, claims.UserID)) {
			return
		}

		var req updateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			Type:        req.Type,
			Title:       req.Title,
			Description: req.Description,
			Date:        req.Date,
			Time:        req.Time,
			IsRecurring: req.IsRecurring,
			Location:    req.Location,
			Notes:       req.Notes,
		}
		if req.Recurrence != nil {
			rec := toRecurrenceInput(*req.Recurrence)
			in.Recurrence = &rec
		}

		e, err := svc.Update(r.Context(), petID, chi.URLParam(r, "eventID"), in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(e))
	}
}

func deleteHandler(svc *Service, access permissions.PetAccess) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		if !authorize(w, access.CanWrite(r.Context(), petID, claims.UserID)) {
			return
		}

		if err := svc.Delete(r.Context(), petID, chi.URLParam(r, "eventID")); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func authorize(w http.ResponseWriter, err error) bool {
	switch err {
	case nil:
		return true
	case permissions.ErrForbidden:
		http.Error(w, "forbidden", http.StatusForbidden)
	case permissions.ErrPetNotFound:
		http.Error(w, "pet not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
	return false
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch err {
	case ErrInvalidInput:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case ErrNotFound:
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toRecurrenceInput(req recurrenceRequest) RecurrenceInput {
	return RecurrenceInput{
		Pattern:    req.Pattern,
		DayOfMonth: req.DayOfMonth,
		DayOfWeek:  req.DayOfWeek,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	}
}

func toResponse(e CareEvent) careEventResponse {
	out := careEventResponse{
		ID:          e.ID,
		PetID:       e.PetID,
		Type:        e.Type,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Time:        e.Time,
		IsRecurring: e.IsRecurring,
		Location:    e.Location,
		Notes:       e.Notes,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.IsRecurring {
		out.Recurrence = &recurrenceResponse{
			Pattern:    e.Recurrence.Pattern,
			DayOfMonth: e.Recurrence.DayOfMonth,
			DayOfWeek:  e.Recurrence.DayOfWeek,
			StartDate:  e.Recurrence.StartDate,
			EndDate:    e.Recurrence.EndDate,
		}
		out.RRule = calendar.RecurrenceRule(e.ToCalendar(""))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
