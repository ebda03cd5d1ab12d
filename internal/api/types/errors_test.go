package types

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	appErr "github.com/esc-directory/consultants/pkg/errors"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{appErr.New(appErr.CodeInvalid, "bad"), http.StatusBadRequest},
		{appErr.New(appErr.CodeNotFound, "gone"), http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", appErr.New(appErr.CodeConflict, "dup")), http.StatusConflict},
		{appErr.New(appErr.CodeForbidden, "no"), http.StatusForbidden},
		{appErr.New(appErr.CodeInternal, "db"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestFromAppErrorHidesInternals(t *testing.T) {
	err := appErr.Wrap(errors.New("pq: password authentication failed"), appErr.CodeInternal, "list consultants failed")

	resp := FromAppError(err)
	assert.Equal(t, "internal server error", resp.Error)
	assert.Equal(t, "internal", resp.Code)

	resp = FromAppError(errors.New("secret detail"))
	assert.Equal(t, "internal server error", resp.Error)

	assert.Nil(t, FromAppError(nil))
}

func TestFromAppErrorDetails(t *testing.T) {
	err := appErr.New(appErr.CodeInvalid, "missing required fields: firm, regions").
		WithMeta("fields", []string{"firm", "regions"})

	resp := FromAppError(err)
	assert.Equal(t, "missing required fields: firm, regions", resp.Error)
	assert.Equal(t, "invalid", resp.Code)
	assert.Equal(t, []string{"firm", "regions"}, resp.Details)
}
