package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"Sator.eden/internal/models"
)

// RequestIDHeader carries the id assigned to every request by the logging
// middleware.
const RequestIDHeader = "X-Request-ID"

// RespondWithError sends a JSON error response using the APIError model.
// It sets the HTTP status code from the APIError and encodes the entire struct.
func RespondWithError(writer http.ResponseWriter, apiErr models.APIError) {
	if apiErr.StatusCode == 0 {
		apiErr.StatusCode = http.StatusInternalServerError
	}
	apiErr.RequestID = writer.Header().Get(RequestIDHeader)

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(apiErr.StatusCode)
	if err := json.NewEncoder(writer).Encode(apiErr); err != nil {
		zap.L().Error("Failed to encode error response", zap.Error(err))
	}
}

// RespondWithErr sends err as a JSON error. Anything that is not a
// models.APIError becomes a 500 without leaking its text.
func RespondWithErr(writer http.ResponseWriter, err error) {
	var apiErr models.APIError
	if errors.As(err, &apiErr) {
		RespondWithError(writer, apiErr)
		return
	}
	zap.L().Error("Unhandled error", zap.Error(err))
	RespondWithError(writer, models.NewAPIError(models.ErrorCodeInternalServerError, "Internal server error", nil, http.StatusInternalServerError))
}

// RespondWithJSON sends a JSON success response.
func RespondWithJSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(statusCode)
	if err := json.NewEncoder(writer).Encode(payload); err != nil {
		zap.L().Error("Failed to encode JSON response", zap.Error(err))
	}
}

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20 // 1 MiB

// DecodeJSON reads a JSON request body of at most MaxBodyBytes into dst. An
// empty body leaves dst untouched so the caller's own validation reports what
// is missing.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return models.NewAPIError(models.ErrorCodeBodyTooLarge, "Request body too large", nil, http.StatusRequestEntityTooLarge)
	}
	return models.NewBadRequestError("Invalid request payload")
}
