package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"bullpen/internal/apperrors"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
	}{
		{apperrors.ErrNotFound, http.StatusNotFound},
		{apperrors.ErrEmptyReason, http.StatusBadRequest},
		{apperrors.ErrValidation, http.StatusBadRequest},
		{apperrors.ErrInvalidTransition, http.StatusConflict},
		{apperrors.ErrAlreadyExists, http.StatusConflict},
		{apperrors.ErrCapacityTooLow, http.StatusConflict},
		{apperrors.ErrCapacityFull, http.StatusConflict},
		{apperrors.ErrLocked, http.StatusConflict},
		{apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{apperrors.ErrForbidden, http.StatusForbidden},
		{apperrors.ErrUnavailable, http.StatusServiceUnavailable},
		{fmt.Errorf("database exploded"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		respondError(c, tc.err)
		assert.Equal(t, tc.status, w.Code, "error %v", tc.err)
	}
}

func TestRespondErrorWrappedErrorsStillMap(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, fmt.Errorf("failed to load event: %w", apperrors.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
