package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/oseayemenre/bookstore/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func respondWithSuccess(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

func respondWithError(w http.ResponseWriter, code int, err error) {
	respondWithSuccess(w, code, models.ErrorResponse{Message: err.Error()})
}

func decodeJson(r *http.Request, params any) error {
	if err := json.NewDecoder(r.Body).Decode(params); err != nil {
		return fmt.Errorf("error decoding json: %v", err)
	}

	return nil
}
