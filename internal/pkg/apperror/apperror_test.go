package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSlot = New(http.StatusConflict, "slot taken")

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusConflict, StatusCode(errSlot))
	assert.Equal(t, http.StatusConflict, StatusCode(fmt.Errorf("%w: %w", errSlot, errors.New("pg: 23P01"))))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("plain")))
}

func TestUserMessage(t *testing.T) {
	msg, ok := UserMessage(fmt.Errorf("%w: %w", errSlot, errors.New("driver detail")))
	assert.True(t, ok)
	assert.Equal(t, "slot taken", msg)

	_, ok = UserMessage(errors.New("plain"))
	assert.False(t, ok)
}
