package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"flockwatch/pkg/e"
	"flockwatch/pkg/validator"
)

const maxBodyBytes = 1 << 20

// DecodeJSON decodes exactly one JSON object from the body into target without validating it.
// Every failure wraps e.ErrInvalidInput.
func DecodeJSON(w http.ResponseWriter, r *http.Request, target interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("invalid JSON: %w", e.ErrInvalidInput)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid JSON: trailing data: %w", e.ErrInvalidInput)
	}
	return nil
}

// Validate runs the struct's validate tags. Failures wrap e.ErrInvalidInput.
func Validate(target interface{}) error {
	if err := validator.ValidateStruct(target); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), e.ErrInvalidInput)
	}
	return nil
}

// BindJSON is DecodeJSON followed by Validate.
func BindJSON(w http.ResponseWriter, r *http.Request, target interface{}) error {
	if err := DecodeJSON(w, r, target); err != nil {
		return err
	}
	return Validate(target)
}
