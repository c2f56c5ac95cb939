package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dogpass-api/internal/platform/apperr"
	"dogpass-api/internal/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.MissingFields(), http.StatusBadRequest},
		{apperr.NotFound("pet %s not found", "p1"), http.StatusNotFound},
		{fmt.Errorf("wrap: %w", apperr.ErrConflict), http.StatusConflict},
		{apperr.Forbidden("nope"), http.StatusForbidden},
		{apperr.ErrUnauthorized, http.StatusUnauthorized},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StatusFor(c.err), c.err.Error())
	}
}

func TestErrorWritesClientMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/pets/p1", nil)

	Error(rec, req, logger.Nop(), "get pet", apperr.NotFound("Pet p1 not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Pet p1 not found", body.Message)
}

func TestErrorHidesInternalDetailsAndLogs(t *testing.T) {
	var logs bytes.Buffer
	log := logger.NewWithWriter(logger.Options{Format: logger.FormatJSON}, &logs)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users", nil)
	Error(rec, req, log, "create user", errors.New("connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), internalErrorMessage)
	assert.NotContains(t, rec.Body.String(), "connection refused")
	assert.Contains(t, logs.String(), "unable to create user")
	assert.Contains(t, logs.String(), "connection refused")
}

func TestDecode(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Rex"}`))
	require.NoError(t, Decode(req, &v))
	assert.Equal(t, "Rex", v.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{bad`))
	assert.ErrorIs(t, Decode(req, &v), apperr.ErrInvalidInput)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	err := Decode(req, &v)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	msg, _ := apperr.Message(err)
	assert.Equal(t, "Missing at least one mandatory field", msg)

	// Campos desconocidos se ignoran (clientes viejos mandan extras)
	v.Name = ""
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Luna","legacy_id":7}`))
	require.NoError(t, Decode(req, &v))
	assert.Equal(t, "Luna", v.Name)
}
