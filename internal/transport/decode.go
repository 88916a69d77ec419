package transport

import (
	"errors"
	"net/http"

	"milka-pos/internal/middleware"

	"go.uber.org/zap"
)

// maxJSONBody caps JSON request bodies
const maxJSONBody = 1 << 20

// decodeJSON reads a capped JSON body into v and answers the request itself
// when the body is too large or malformed. It reports whether the caller may
// continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, logger *zap.Logger, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	if err := middleware.DecodeJSON(r, v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			middleware.RespondWithError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}

		logger.Debug("Request body decoding failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	return true
}

// validate answers with every violation when v is invalid. It reports
// whether the caller may continue.
func validate(w http.ResponseWriter, logger *zap.Logger, v interface{}) bool {
	if err := middleware.ValidateRequest(v); err != nil {
		logger.Debug("Request validation failed", zap.Error(err))

		if middleware.IsValidationError(err) {
			middleware.RespondWithValidationErrors(w, middleware.FormatValidationErrors(err))
			return false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	return true
}
