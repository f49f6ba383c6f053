package errors

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, GetCode(ErrNotFound("booking")))
	assert.Equal(t, http.StatusConflict, GetCode(fmt.Errorf("reserve: %w", ErrConflict("slot taken"))))
	assert.Equal(t, http.StatusInternalServerError, GetCode(io.EOF))
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("invalid booking", map[string]string{"date": "Date cannot be in the past"})

	httpErr, ok := As(fmt.Errorf("wrapped: %w", err))
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Code)
	assert.Equal(t, "Date cannot be in the past", httpErr.FieldErrors["date"])
	assert.Equal(t, "invalid booking", err.Error())
}
