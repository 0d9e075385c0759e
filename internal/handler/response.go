package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-bill-tracker/internal/model"
	"go-bill-tracker/pkg/apierror"
	"go-bill-tracker/pkg/validator"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON reads a single JSON object from the request body. Unknown
// fields are ignored, so a client-supplied userId never reaches a bill.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return apierror.Validation("Request body too large", "")
		}
		return apierror.Validation("Invalid JSON body", err.Error())
	}
	return nil
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := model.ErrorResponse{
		Error: "Unexpected server error",
		Code:  apierror.CodeInternal,
	}

	var apiErr *apierror.APIError
	var validationErr *validator.ValidationError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Error = apiErr.Message
		body.Details = apiErr.Details
	} else if errors.As(err, &validationErr) {
		status = http.StatusBadRequest
		body.Code = apierror.CodeValidation
		body.Error = "Invalid input"
		body.Details = validationErr.Error()
	} else if errors.Is(err, model.ErrBillNotFound) {
		status = http.StatusNotFound
		body.Code = apierror.CodeNotFound
		body.Error = "Bill not found"
	} else if errors.Is(err, model.ErrUserNotFound) {
		status = http.StatusNotFound
		body.Code = apierror.CodeNotFound
		body.Error = "User not found"
	} else if errors.Is(err, model.ErrEmailTaken) {
		status = http.StatusBadRequest
		body.Code = apierror.CodeValidation
		body.Error = "User already exists"
	} else {
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	writeJSON(w, status, body)
}
