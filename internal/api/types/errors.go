package types

import (
	"net/http"

	appErr "github.com/esc-directory/consultants/pkg/errors"
)

// StatusFor maps an error's code to the HTTP status it is reported with.
func StatusFor(err error) int {
	switch appErr.CodeOf(err) {
	case appErr.CodeInvalid:
		return http.StatusBadRequest
	case appErr.CodeNotFound:
		return http.StatusNotFound
	case appErr.CodeConflict:
		return http.StatusConflict
	case appErr.CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// FromAppError builds the response body for err. Internal and unknown errors
// get a generic message so store details never reach the client.
func FromAppError(err error) *ErrorResponse {
	if err == nil {
		return nil
	}
	ae, ok := appErr.As(err)
	if !ok || StatusFor(err) == http.StatusInternalServerError {
		return &ErrorResponse{Error: "internal server error", Code: string(appErr.CodeInternal)}
	}
	resp := &ErrorResponse{Error: ae.Message, Code: string(ae.Code)}
	if fields, ok := ae.Meta["fields"].([]string); ok {
		resp.Details = fields
	}
	return resp
}
