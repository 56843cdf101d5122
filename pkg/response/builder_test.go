package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
	"github.com/AnderssonLeandro09/baloncesto-backend/pkg/response"
)

func TestHTTPStatus(t *testing.T) {
	testCases := []struct {
		status  shared.Status
		created bool
		want    int
	}{
		{shared.StatusSuccess, false, http.StatusOK},
		{shared.StatusSuccess, true, http.StatusCreated},
		{shared.StatusValidationError, true, http.StatusBadRequest},
		{shared.StatusNotFound, false, http.StatusNotFound},
		{shared.StatusConflict, true, http.StatusConflict},
		{shared.StatusError, false, http.StatusInternalServerError},
		{shared.Status("other"), false, http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(string(tc.status), func(t *testing.T) {
			assert.Equal(t, tc.want, response.HTTPStatus(tc.status, tc.created))
		})
	}
}

func TestFromResult(t *testing.T) {
	t.Run("invalid carries field errors", func(t *testing.T) {
		r := shared.Invalid("Datos inválidos", []shared.FieldError{{Field: "dni", Message: "El DNI debe tener 10 dígitos numéricos"}})

		resp := response.FromResult(r, true)

		assert.Equal(t, "validation_error", resp.Status)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.False(t, resp.IsSuccess)
		assert.Equal(t, []string{"El DNI debe tener 10 dígitos numéricos"}, resp.Errors)
		require.Len(t, resp.ValidationErrors, 1)
		assert.Equal(t, "dni", resp.ValidationErrors[0].Field)
	})

	t.Run("success carries data", func(t *testing.T) {
		resp := response.FromResult(shared.Success(map[string]int{"id": 3}, "Creado"), true)

		assert.True(t, resp.IsSuccess)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, map[string]int{"id": 3}, resp.Data)
	})
}

func TestWrite(t *testing.T) {
	rec := httptest.NewRecorder()

	response.Write(rec, response.Forbidden("Acceso denegado"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "forbidden", body["status"])
	assert.Equal(t, float64(403), body["status_code"])
	assert.Equal(t, false, body["is_success"])
	assert.NotContains(t, body, "data")
	assert.NotContains(t, body, "validation_errors")
}
