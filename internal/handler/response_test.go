package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-bill-tracker/internal/model"
	"go-bill-tracker/pkg/apierror"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"api error", apierror.NotFound("Bill not found", "42"), http.StatusNotFound, apierror.CodeNotFound, "Bill not found"},
		{"forbidden", apierror.Forbidden("Not authorized"), http.StatusUnauthorized, apierror.CodeForbidden, "Not authorized"},
		{"wrapped sentinel", fmt.Errorf("load: %w", model.ErrBillNotFound), http.StatusNotFound, apierror.CodeNotFound, "Bill not found"},
		{"email taken", model.ErrEmailTaken, http.StatusBadRequest, apierror.CodeValidation, "User already exists"},
		{"unclassified", errors.New("disk on fire"), http.StatusInternalServerError, apierror.CodeInternal, "Unexpected server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body model.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Error)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst model.LoginRequest

	req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(`{"email":"a@x.com","password":"pw1"}`))
	require.NoError(t, decodeJSON(httptest.NewRecorder(), req, &dst))
	assert.Equal(t, "a@x.com", dst.Email)

	req = httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(`{"email":`))
	err := decodeJSON(httptest.NewRecorder(), req, &dst)
	assert.Equal(t, apierror.CodeValidation, apierror.CodeOf(err))

	big := `{"email":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	req = httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(big))
	err = decodeJSON(httptest.NewRecorder(), req, &dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Request body too large")
}
