package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tech-sports-pimba/pimba-mvp/core/logger"
	"github.com/tech-sports-pimba/pimba-mvp/middleware"
)

func TestLogging(t *testing.T) {
	t.Parallel()

	t.Run("logs method path and status", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.NewWithWriter(logger.Config{Level: "info", Format: "json"}, &buf)

		handler := middleware.Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))

		r := httptest.NewRequest("POST", "/login", nil)
		r.Header.Set("Authorization", "Bearer super-secret")
		handler.ServeHTTP(httptest.NewRecorder(), r)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "POST", entry["method"])
		assert.Equal(t, "/login", entry["path"])
		assert.EqualValues(t, http.StatusCreated, entry["status"])
		assert.NotContains(t, buf.String(), "super-secret")
	})

	t.Run("implicit 200 when the handler never writes a status", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.NewWithWriter(logger.Config{Level: "info", Format: "json"}, &buf)

		handler := middleware.Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.EqualValues(t, http.StatusOK, entry["status"])
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		t.Parallel()
		handler := middleware.Logging(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	})
}
