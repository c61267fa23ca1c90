package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/aide-studio/engine/internal/api/middleware"
	"github.com/aide-studio/engine/internal/api/types"
	appErr "github.com/aide-studio/engine/pkg/errors"
	"github.com/aide-studio/engine/pkg/logger"
)

// maxBodyBytes bounds request bodies; file content travels inline.
const maxBodyBytes = 10 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeRaw relays an already encoded JSON document.
func writeRaw(w http.ResponseWriter, status int, body json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := types.StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.L().Error("request failed",
			zap.String("id", middleware.GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeJSON(w, status, types.FromAppError(err, fallback))
}

func writeErrorStr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg})
}

// decodeJSON reads the request body into dst. Malformed JSON is reported as
// CodeInvalid with message so it maps to a 400 like a schema failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, message string) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && err != io.EOF {
		return appErr.Wrap(err, appErr.CodeInvalid, message)
	}
	return nil
}
