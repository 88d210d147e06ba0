package requests_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"portfolio-tracker/src/utils/requests"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Token abc", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte(`{"q":"` + r.URL.Query().Get("q") + `"}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(strings.Repeat("x", 500)))
		}
	}))
	defer server.Close()

	api := requests.NewExternalAPIService(nil, time.Second, "Token", "abc")

	t.Run("returns the body of a success response", func(t *testing.T) {
		body, err := api.GetJSON(context.Background(), server.URL+"/ok", url.Values{"q": {"apple"}})
		require.NoError(t, err)
		assert.JSONEq(t, `{"q":"apple"}`, string(body))
	})

	t.Run("non 2xx is a status error with a truncated body", func(t *testing.T) {
		_, err := api.GetJSON(context.Background(), server.URL+"/fail", nil)
		var statusErr *requests.StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
		assert.Len(t, statusErr.Body, 200)
	})
}
