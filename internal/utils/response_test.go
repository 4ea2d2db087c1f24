package utils

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseConstructors(t *testing.T) {
	assert.Equal(t, Response{Status: http.StatusOK, Message: "ok", Data: 1}, NewSuccessResponse("ok", 1))
	assert.Equal(t, Response{Status: http.StatusCreated, Message: "made", Data: "x"}, NewCreatedResponse("made", "x"))
	assert.Equal(t, Response{Status: http.StatusNotFound, Message: "gone"}, NewErrorResponse(http.StatusNotFound, "gone"))
}
