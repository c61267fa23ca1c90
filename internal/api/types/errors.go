package types

import (
	"net/http"

	appErr "github.com/aide-studio/engine/pkg/errors"
)

// StatusFor maps an error code to the HTTP status the API reports it with.
// Anything unrecognised, upstream failures included, is a 500.
func StatusFor(err error) int {
	switch appErr.CodeOf(err) {
	case appErr.CodeInvalid, appErr.CodeNotConfigured:
		return http.StatusBadRequest
	case appErr.CodeNotFound:
		return http.StatusNotFound
	case appErr.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FromAppError builds the wire error for err. Only the public message of an
// AppError crosses the boundary; wrapped causes stay in the logs.
func FromAppError(err error, fallback string) ErrorResponse {
	if err == nil {
		return ErrorResponse{Error: fallback}
	}
	code := appErr.CodeOf(err)
	resp := ErrorResponse{Error: appErr.MessageOf(err, fallback)}
	if code != appErr.CodeUnknown {
		resp.Code = string(code)
	}
	return resp
}
