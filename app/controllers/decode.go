package controllers

import (
	"encoding/json"
	"net/http"

	apperrors "taskmanager/app/errors"
)

// MaxBodyBytes caps request bodies accepted by the API.
const MaxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.NewValidationError("invalid request payload", err)
	}
	return nil
}
