package utils_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"portfolio-tracker/src/utils"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		code    int
		message string
		details bool
	}{
		{"validation", utils.NewValidationError("shares", "shares must be a positive number"), http.StatusBadRequest, "shares must be a positive number", false},
		{"authentication", fmt.Errorf("%w: token expired", utils.ErrAuthentication), http.StatusUnauthorized, "Unauthorized: Invalid token", false},
		{"key resolution", fmt.Errorf("%w: jwks unreachable", utils.ErrKeyResolution), http.StatusUnauthorized, "Unauthorized: Invalid token", false},
		{"not found", fmt.Errorf("%w: holding 3", utils.ErrNotFound), http.StatusNotFound, "Holding not found", false},
		{"repository", fmt.Errorf("%w: connection refused", utils.ErrRepository), http.StatusInternalServerError, "Database error", true},
		{"data source", fmt.Errorf("%w: 503", utils.ErrDataSource), http.StatusInternalServerError, "Failed to fetch news", true},
		{"deadline", fmt.Errorf("list: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "Request timed out", false},
		{"explicit http error", utils.BadRequest("Invalid request body"), http.StatusBadRequest, "Invalid request body", false},
		{"unknown", errors.New("panic-ish"), http.StatusInternalServerError, "Internal Server Error", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			httpErr := utils.ToHTTPError(tc.err, "Failed to fetch news")
			assert.Equal(t, tc.code, httpErr.Code)
			assert.Equal(t, tc.message, httpErr.Message)
			if tc.details {
				assert.Equal(t, tc.err.Error(), httpErr.Details)
			} else {
				assert.Empty(t, httpErr.Details)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	utils.WriteError(rec, fmt.Errorf("%w: boom", utils.ErrRepository))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Database error","details":"repository error: boom"}`, rec.Body.String())
}
