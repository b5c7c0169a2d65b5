package httperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsSetStatus(t *testing.T) {
	testCases := []struct {
		name   string
		err    *Error
		status int
	}{
		{"bad request", BadRequest("a", "b", nil), http.StatusBadRequest},
		{"unauthorized", Unauthorized("a", "b", nil), http.StatusUnauthorized},
		{"forbidden", Forbidden("a", "b", nil), http.StatusForbidden},
		{"not found", NotFound("a", "b", nil), http.StatusNotFound},
		{"conflict", Conflict("a", "b", nil), http.StatusConflict},
		{"unprocessable", UnprocessableEntity("a", "b", nil), http.StatusUnprocessableEntity},
		{"internal", InternalServerError("a", "b", nil), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, tc.err.Status)
			assert.Equal(t, "a", tc.err.Code)
			assert.Equal(t, "b", tc.err.Message)
		})
	}
}

func TestErrorUnwrapsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", UnprocessableEntity(
		"category.create.validation_failed",
		"The given data was invalid.",
		map[string][]string{"name": {"The name field is required."}},
	))

	var httpErr *Error
	require.True(t, errors.As(wrapped, &httpErr))
	assert.Equal(t, []string{"The name field is required."}, httpErr.Fields["name"])
	assert.Contains(t, httpErr.Error(), "422 category.create.validation_failed")
}
