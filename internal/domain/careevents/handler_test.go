package careevents

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pet-care-records/internal/ports/permissions"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		ok   bool
		code int
	}{
		{nil, true, http.StatusOK},
		{permissions.ErrForbidden, false, http.StatusForbidden},
		{permissions.ErrPetNotFound, false, http.StatusNotFound},
		{fmt.Errorf("collaborator lookup: %w", errors.New("db down")), false, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		assert.Equal(t, tc.ok, authorize(rec, tc.err), "err %v", tc.err)
		assert.Equal(t, tc.code, rec.Code, "err %v", tc.err)
	}
}
