package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"task-manager/microservices/api-service/logging"
)

func TestRequestLoggerEmitsAtInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	logging.Logger.SetOutput(&buf)
	logging.Logger.SetLevel(logrus.InfoLevel)
	t.Cleanup(func() { logging.Logger.SetOutput(os.Stderr) })

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	RequestLogger(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks?count=true", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code, "the wrapped handler still runs")
	assert.Contains(t, buf.String(), "GET /tasks?count=true", "the request line is logged at the default info level")
}

func TestEnableCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	EnableCORS(next).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/tasks", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	EnableCORS(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
