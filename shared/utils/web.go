package utils

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/repospector/repospector/shared/errors"
	"github.com/repospector/repospector/shared/logger"
)

const internalErrorMessage = "Internal server error"

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorBody struct {
	Error string `json:"error"`
}

type messageBody struct {
	Message string `json:"message"`
}

// WriteErrorAndStatusCode writes err as a JSON {"error": ...} body.
// Errors without a status are logged and replaced with a generic message.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	var e *errors.ErrorWithStatusCode
	if stderrors.As(err, &e) {
		WriteJSON(w, e.StatusCode, errorBody{Error: e.Message})
		return
	}
	logger.Log.Error("unhandled error at request boundary", "error", err)
	WriteJSON(w, http.StatusInternalServerError, errorBody{Error: internalErrorMessage})
}

// WriteErrorMessage writes a JSON error body with an explicit status.
func WriteErrorMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, errorBody{Error: message})
}

func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, messageBody{Message: message})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

// DecodeValidate decodes a JSON body into body and runs struct validation on it.
func DecodeValidate(r io.ReadCloser, body any) error {
	if err := Decode(r, body); err != nil {
		return err
	}
	if err := validate.Struct(body); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) && len(verrs) > 0 {
			return errors.Validation(describeValidationError(verrs[0]))
		}
		return errors.Validation("Invalid request body")
	}
	return nil
}

func Decode(r io.ReadCloser, body any) error {
	defer r.Close()
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("failed to decode body", "error", err)
		return errors.Validation("Body is invalid json")
	}
	return nil
}

func describeValidationError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Invalid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
