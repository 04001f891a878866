package vaccinations

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"pet-care-records/internal/middleware"
	"pet-care-records/internal/ports/permissions"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, access permissions.PetAccess) {
	r.Route("/pets/{petID}/vaccinations", func(vr chi.Router) {
		vr.Post("/", createHandler(svc, access))
		vr.Get("/", listHandler(svc, access))
		vr.Patch("/{vaccinationID}", updateHandler(svc, access))
		vr.Delete("/{vaccinationID}", deleteHandler(svc, access))
	})
}

type createRequest struct {
	VaccineName    string `json:"vaccine_name"`
	AdministeredOn string `json:"administered_on"` // YYYY-MM-DD
	ExpirationDate string `json:"expiration_date"` // YYYY-MM-DD opcional
	Veterinarian   string `json:"veterinarian"`
	Notes          string `json:"notes"`
}

type updateRequest struct {
	VaccineName    *string `json:"vaccine_name"`
	AdministeredOn *string `json:"administered_on"`
	ExpirationDate *string `json:"expiration_date"`
	Veterinarian   *string `json:"veterinarian"`
	Notes          *string `json:"notes"`
}

type vaccinationResponse struct {
	ID             string    `json:"id"`
	PetID          string    `json:"pet_id"`
	VaccineName    string    `json:"vaccine_name"`
	AdministeredOn string    `json:"administered_on"`
	ExpirationDate string    `json:"expiration_date,omitempty"`
	Veterinarian   string    `json:"veterinarian,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// createHandler godoc
// @Summary Registrar vacuna
// @Description Registra una vacuna aplicada. Si trae expiration_date aparece como recordatorio en los feeds de calendario.
// @Tags vaccinations
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body createRequest true "Vacuna"
// @Success 201 {object} vaccinationResponse
// @Failure 400 {string} string "invalid input"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/vaccinations [post]
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

		v, err := svc.Create(r.Context(), petID, claims.UserID, CreateInput{
			VaccineName:    req.VaccineName,
			AdministeredOn: req.AdministeredOn,
			ExpirationDate: req.ExpirationDate,
			Veterinarian:   req.Veterinarian,
			Notes:          req.Notes,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toResponse(v))
	}
}

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
		out := make([]vaccinationResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toResponse(v))
		}
		writeJSON(w, http.StatusOK, out)
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

		v, err := svc.Update(r.Context(), petID, chi.URLParam(r, "vaccinationID"), UpdateInput{
			VaccineName:    req.VaccineName,
			AdministeredOn: req.AdministeredOn,
			ExpirationDate: req.ExpirationDate,
			Veterinarian:   req.Veterinarian,
			Notes:          req.Notes,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(v))
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

		if err := svc.Delete(r.Context(), petID, chi.URLParam(r, "vaccinationID")); err != nil {
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

func toResponse(v Vaccination) vaccinationResponse {
	return vaccinationResponse{
		ID:             v.ID,
		PetID:          v.PetID,
		VaccineName:    v.VaccineName,
		AdministeredOn: v.AdministeredOn,
		ExpirationDate: v.ExpirationDate,
		Veterinarian:   v.Veterinarian,
		Notes:          v.Notes,
		CreatedBy:      v.CreatedBy,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
