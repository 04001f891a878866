package feeds

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-care-records/internal/calendar"
	"pet-care-records/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// PublicBaseURL: si está vacío se deriva del request (scheme + Host).
// TrustForwardedProto: tomar el scheme de X-Forwarded-Proto; solo detrás de un
// proxy propio, si no cualquier cliente elige el scheme de la URL.
type HandlerOptions struct {
	PublicBaseURL       string
	TrustForwardedProto bool
}

func RegisterRoutes(r chi.Router, svc *Service, opts HandlerOptions) {
	// Feed público: el token es la credencial.
	r.Get("/api/calendar/{token}", publicFeedHandler(svc))

	r.Route("/me/calendar-feeds", func(fr chi.Router) {
		fr.Post("/", createFeedHandler(svc, opts))
		fr.Get("/", listFeedsHandler(svc, opts))
		fr.Patch("/{feedID}", updateFeedHandler(svc, opts))
		fr.Delete("/{feedID}", deleteFeedHandler(svc))
		fr.Post("/{feedID}/rotate", rotateFeedHandler(svc, opts))
	})

	r.Get("/me/upcoming", upcomingHandler(svc))
}

type createFeedRequest struct {
	Name  string `json:"name"`
	PetID string `json:"pet_id"` // opcional: feed de una sola mascota
}

type updateFeedRequest struct {
	Name   *string `json:"name"`
	Active *bool   `json:"active"`
}

type feedResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name,omitempty"`
	PetID          string     `json:"pet_id,omitempty"`
	Active         bool       `json:"active"`
	URL            string     `json:"url"`
	WebcalURL      string     `json:"webcal_url"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
}

type upcomingResponse struct {
	UID        string    `json:"uid"`
	Summary    string    `json:"summary"`
	Start      time.Time `json:"start"`
	AllDay     bool      `json:"all_day"`
	Location   string    `json:"location,omitempty"`
	Categories []string  `json:"categories,omitempty"`
}

// publicFeedHandler godoc
// @Summary Feed iCalendar público
// @Description Devuelve el calendario (RFC 5545) asociado al token. No requiere autenticación. Acepta el token con o sin sufijo .ics. Token inválido, desconocido o feed desactivado responden 404.
// @Tags calendar
// @Produce text/calendar
// @Param token path string true "Token del feed (32 caracteres URL-safe)"
// @Success 200 {string} string "VCALENDAR"
// @Failure 404 {string} string "not found"
// @Failure 500 {string} string "internal error"
// @Router /api/calendar/{token} [get]
func publicFeedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSuffix(chi.URLParam(r, "token"), ".ics")

		doc, err := svc.Render(r.Context(), token)
		if err != nil {
			if err == ErrNotFound {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", calendar.ContentType)
		w.Header().Set("Content-Disposition", `inline; filename="pet-care.ics"`)
		w.Header().Set("Cache-Control", "no-cache, must-revalidate")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(doc))
	}
}

// createFeedHandler godoc
// @Summary Crear feed de calendario
// @Description Emite un token nuevo y devuelve la URL de suscripción (https y webcal).
// @Tags calendar
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createFeedRequest false "Nombre y mascota opcionales"
// @Success 201 {object} feedResponse
// @Failure 400 {string} string "invalid input"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /me/calendar-feeds [post]
func createFeedHandler(svc *Service, opts HandlerOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createFeedRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		f, err := svc.Create(r.Context(), claims.UserID, CreateInput{Name: req.Name, PetID: req.PetID})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toFeedResponse(f, origin(r, opts)))
	}
}

func listFeedsHandler(svc *Service, opts HandlerOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		base := origin(r, opts)
		out := make([]feedResponse, 0, len(items))
		for _, f := range items {
			out = append(out, toFeedResponse(f, base))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func updateFeedHandler(svc *Service, opts HandlerOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateFeedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		f, err := svc.Update(r.Context(), claims.UserID, chi.URLParam(r, "feedID"), UpdateInput{
			Name:   req.Name,
			Active: req.Active,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toFeedResponse(f, origin(r, opts)))
	}
}

// rotateFeedHandler godoc
// @Summary Rotar token del feed
// @Description Invalida la URL anterior y emite un token nuevo.
// @Tags calendar
// @Produce json
// @Param feedID path string true "ID del feed"
// @Success 200 {object} feedResponse
// @Failure 404 {string} string "feed not found"
// @Router /me/calendar-feeds/{feedID}/rotate [post]
func rotateFeedHandler(svc *Service, opts HandlerOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		f, err := svc.Rotate(r.Context(), claims.UserID, chi.URLParam(r, "feedID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toFeedResponse(f, origin(r, opts)))
	}
}

func deleteFeedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), claims.UserID, chi.URLParam(r, "feedID")); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// upcomingHandler godoc
// @Summary Próximos cuidados
// @Description Ocurrencias concretas (recurrencias expandidas) de eventos y vencimientos de vacunas en los próximos N días.
// @Tags calendar
// @Produce json
// @Param days query int false "Ventana en días (1-365). Por defecto 7"
// @Success 200 {array} upcomingResponse
// @Failure 400 {string} string "days inválido"
// @Failure 401 {string} string "unauthorized"
// @Router /me/upcoming [get]
func upcomingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		days := DefaultUpcomingDays
		if raw := strings.TrimSpace(r.URL.Query().Get("days")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				http.Error(w, "days must be an integer", http.StatusBadRequest)
				return
			}
			days = n
		}

		items, err := svc.Upcoming(r.Context(), claims.UserID, days)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]upcomingResponse, 0, len(items))
		for _, it := range items {
			out = append(out, upcomingResponse{
				UID:        it.UID,
				Summary:    it.Summary,
				Start:      it.Start,
				AllDay:     it.AllDay,
				Location:   it.Location,
				Categories: it.Categories,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func origin(r *http.Request, opts HandlerOptions) string {
	if opts.PublicBaseURL != "" {
		return opts.PublicBaseURL
	}
	scheme := "http"
	switch {
	case r.TLS != nil:
		scheme = "https"
	case opts.TrustForwardedProto && strings.EqualFold(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")), "https"):
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func toFeedResponse(f Feed, base string) feedResponse {
	return feedResponse{
		ID:             f.ID,
		Name:           f.Name,
		PetID:          f.PetID,
		Active:         f.Active,
		URL:            calendar.FeedURL(f.Token, base),
		WebcalURL:      calendar.WebcalURL(f.Token, base),
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
		LastAccessedAt: f.LastAccessedAt,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch err {
	case ErrInvalidInput:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case ErrForbidden:
		http.Error(w, "forbidden", http.StatusForbidden)
	case ErrNotFound:
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
