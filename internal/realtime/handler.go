// Package realtime expone el bus de cambios como Server-Sent Events.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-care-records/internal/calendar"
	"pet-care-records/internal/middleware"
	"pet-care-records/internal/platform/logger"
	"pet-care-records/internal/ports/changes"
)

// PetScope resuelve qué mascotas ve un usuario (propias + compartidas activas).
type PetScope interface {
	AccessiblePets(ctx context.Context, userID string) ([]calendar.PetRef, error)
}

type Options struct {
	Heartbeat time.Duration // default 25s
	Logger    logger.Logger
}

func RegisterRoutes(r chi.Router, bus changes.Bus, scope PetScope, opts Options) {
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = 25 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	r.Get("/me/changes", streamChangesHandler(bus, scope, opts))
}

// streamChangesHandler godoc
// @Summary Stream de cambios (SSE)
// @Description Emite eventos `change` cuando se crean, modifican o borran eventos de cuidado y vacunas de las mascotas accesibles. Las mascotas se resuelven al conectar.
// @Tags changes
// @Produce text/event-stream
// @Success 200 {string} string "event stream"
// @Failure 401 {string} string "unauthorized"
// @Router /me/changes [get]
func streamChangesHandler(bus changes.Bus, scope PetScope, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		refs, err := scope.AccessiblePets(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		petIDs := make([]string, 0, len(refs))
		for _, p := range refs {
			petIDs = append(petIDs, p.ID)
		}

		// Filter vacío significa "todo": sin mascotas no se suscribe.
		var events <-chan changes.ChangeEvent
		if len(petIDs) > 0 {
			sub, err := bus.Subscribe(r.Context(), changes.Filter{PetIDs: petIDs})
			if err != nil {
				opts.Logger.Error("subscribe failed", map[string]any{"error": err.Error()})
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			defer sub.Unsubscribe()
			events = sub.Events()
		}

		// sin write deadline: la conexión vive lo que viva el cliente
		_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		fmt.Fprintf(w, ": subscribed pets=%d\n\n", len(petIDs))
		flusher.Flush()

		ticker := time.NewTicker(opts.Heartbeat)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-ticker.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				flusher.Flush()
			case ev, open := <-events:
				if !open {
					return
				}
				if err := writeEvent(w, ev); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, ev changes.ChangeEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: change\nid: %s\ndata: %s\n\n", ev.ID, b)
	return err
}
