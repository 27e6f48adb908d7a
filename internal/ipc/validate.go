package ipc

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// decodeAndValidate decodes the request body into v and runs struct
// validation. On failure it writes the error response itself and returns
// a non-nil error so the handler can bail out.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, APIError{Code: 400, Message: "invalid request body"})
		return err
	}
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{
				Code:    400,
				Message: "request validation failed",
				Fields:  fields,
			})
			return err
		}
		writeJSON(w, http.StatusBadRequest, APIError{Code: 400, Message: err.Error()})
		return err
	}
	return nil
}

// ValidationErrorResponse reports per-field validation failures.
type ValidationErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}
