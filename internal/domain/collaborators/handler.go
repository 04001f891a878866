package collaborators

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"pet-care-records/internal/middleware"
	"pet-care-records/internal/ports/permissions"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, access *Access) {
	// Acciones del owner sobre una mascota
	r.Route("/pets/{petID}/collaborators", func(cr chi.Router) {
		cr.Post("/", inviteHandler(svc, access))
		cr.Get("/", listByPetHandler(svc, access))
	})

	// Acciones por id de colaborador (colaborador acepta, owner o colaborador revoca)
	r.Route("/collaborators/{collaboratorID}", func(cr chi.Router) {
		cr.Post("/accept", acceptHandler(svc))
		cr.Post("/revoke", revokeHandler(svc))
	})

	r.Get("/me/collaborations", listMineHandler(svc))
}

type inviteRequest struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

type collaboratorResponse struct {
	ID          string     `json:"id"`
	PetID       string     `json:"pet_id"`
	OwnerUserID string     `json:"owner_user_id"`
	UserID      string     `json:"user_id"`
	Role        Role       `json:"role"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
}

// inviteHandler godoc
// @Summary Invitar colaborador
// @Description Comparte la mascota con otro usuario. Solo el dueño puede invitar. Si ya existe una invitación vigente se actualiza el rol.
// @Tags collaborators
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Param payload body inviteRequest true "Usuario y rol (viewer|editor)"
// @Success 201 {object} collaboratorResponse
// @Failure 400 {string} string "invalid json / rol inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/collaborators [post]
func inviteHandler(svc *Service, access *Access) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		if !ownerOnly(w, r, access, petID, claims.UserID) {
			return
		}

		var req inviteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.UserID) == "" {
			http.Error(w, "user_id required", http.StatusBadRequest)
			return
		}

		c, err := svc.Invite(r.Context(), InviteInput{
			PetID:       petID,
			OwnerUserID: claims.UserID,
			UserID:      req.UserID,
			Role:        req.Role,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toResponse(c))
	}
}

func listByPetHandler(svc *Service, access *Access) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		if !ownerOnly(w, r, access, petID, claims.UserID) {
			return
		}

		items, err := svc.ListByPet(r.Context(), petID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

func listMineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// status=invited,active (CSV opcional)
		allowed := parseStatusFilter(r.URL.Query().Get("status"))

		items, err := svc.ListByUser(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if len(allowed) > 0 {
			filtered := make([]Collaborator, 0, len(items))
			for _, c := range items {
				if _, ok := allowed[c.Status]; ok {
					filtered = append(filtered, c)
				}
			}
			items = filtered
		}

		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

func acceptHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		c, err := svc.Accept(r.Context(), chi.URLParam(r, "collaboratorID"), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toResponse(c))
	}
}

func revokeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		c, err := svc.Revoke(r.Context(), chi.URLParam(r, "collaboratorID"), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toResponse(c))
	}
}

func ownerOnly(w http.ResponseWriter, r *http.Request, access *Access, petID, userID string) bool {
	switch access.IsOwner(r.Context(), petID, userID) {
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
	case ErrForbidden:
		http.Error(w, "forbidden", http.StatusForbidden)
	case ErrNotFound:
		http.Error(w, "not found", http.StatusNotFound)
	case ErrBadState:
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toResponse(c Collaborator) collaboratorResponse {
	return collaboratorResponse{
		ID:          c.ID,
		PetID:       c.PetID,
		OwnerUserID: c.OwnerUserID,
		UserID:      c.UserID,
		Role:        c.Role,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		RevokedAt:   c.RevokedAt,
	}
}

func toResponses(items []Collaborator) []collaboratorResponse {
	out := make([]collaboratorResponse, 0, len(items))
	for _, c := range items {
		out = append(out, toResponse(c))
	}
	return out
}

func parseStatusFilter(raw string) map[Status]struct{} {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	out := map[Status]struct{}{}
	for _, p := range strings.Split(raw, ",") {
		s := Status(strings.TrimSpace(p))
		if s == "" {
			continue
		}
		out[s] = struct{}{}
	}
	return out
}

// writeJSON está duplicado en los handlers de cada módulo; todavía no hay
// suficientes usos como para un helper común.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
