package types

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	appErr "github.com/aide-studio/engine/pkg/errors"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(appErr.New(appErr.CodeInvalid, "x")))
	assert.Equal(t, http.StatusBadRequest, StatusFor(appErr.New(appErr.CodeNotConfigured, "x")))
	assert.Equal(t, http.StatusNotFound, StatusFor(appErr.New(appErr.CodeNotFound, "x")))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(appErr.New(appErr.CodeUpstream, "x")))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("boom")))
}

func TestFromAppErrorHidesCause(t *testing.T) {
	err := appErr.Wrap(errors.New("dial tcp: secret host"), appErr.CodeUpstream, "Failed to communicate with OpenRouter API")
	resp := FromAppError(err, "fallback")
	assert.Equal(t, "Failed to communicate with OpenRouter API", resp.Error)
	assert.Equal(t, "upstream", resp.Code)

	resp = FromAppError(errors.New("raw"), "Failed to fetch projects")
	assert.Equal(t, "Failed to fetch projects", resp.Error)
	assert.Empty(t, resp.Code)
}
