package realtime

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	membus "pet-care-records/internal/adapters/changes/memory"
	"pet-care-records/internal/calendar"
	"pet-care-records/internal/middleware"
	"pet-care-records/internal/ports/changes"
)

type scopeStub map[string][]calendar.PetRef

func (s scopeStub) AccessiblePets(ctx context.Context, userID string) ([]calendar.PetRef, error) {
	return s[userID], nil
}

func newServer(t *testing.T, bus changes.Bus) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Use(middleware.AuthContext(nil))
	RegisterRoutes(r, bus, scopeStub{"u1": {{ID: "p1", Name: "Buddy"}}}, Options{Heartbeat: time.Hour})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestStreamChanges_RequiresAuth(t *testing.T) {
	bus := membus.NewBus()
	defer bus.Close()
	srv := newServer(t, bus)

	resp, err := http.Get(srv.URL + "/me/changes")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStreamChanges_DeliversOnlyAccessiblePets(t *testing.T) {
	bus := membus.NewBus()
	defer bus.Close()
	srv := newServer(t, bus)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/me/changes", nil)
	req.Header.Set(middleware.DebugUserHeader, "u1")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	rd := bufio.NewReader(resp.Body)
	// comentario inicial => la suscripción ya está activa
	line, err := rd.ReadString('\n')
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(line, ": subscribed pets=1"))

	require.NoError(t, bus.Publish(ctx, changes.ChangeEvent{Entity: changes.EntityCareEvent, Op: changes.OpInsert, ID: "other", PetID: "p9"}))
	require.NoError(t, bus.Publish(ctx, changes.ChangeEvent{Entity: changes.EntityCareEvent, Op: changes.OpInsert, ID: "e1", PetID: "p1"}))

	var data string
	for data == "" {
		line, err := rd.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: ") {
			data = strings.TrimSpace(strings.TrimPrefix(line, "data: "))
		}
	}

	var ev changes.ChangeEvent
	require.NoError(t, json.Unmarshal([]byte(data), &ev))
	assert.Equal(t, "e1", ev.ID)
	assert.Equal(t, "p1", ev.PetID)
}
