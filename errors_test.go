package convagent

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryForStatus(t *testing.T) {
	tests := []struct {
		code     int
		expected ErrorCategory
	}{
		{429, ErrorTransient},
		{500, ErrorTransient},
		{503, ErrorTransient},
		{401, ErrorPermanent},
		{403, ErrorPermanent},
		{400, ErrorUserInput},
		{404, ErrorUserInput},
		{422, ErrorUserInput},
		{418, ErrorPermanent},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, CategoryForStatus(tt.code))
		})
	}
}

func TestError(t *testing.T) {
	t.Run("message includes distinct cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := &Error{Msg: "upstream unavailable", Cat: ErrorTransient, Code: 503, Cause: cause}

		assert.Equal(t, "upstream unavailable: connection reset", err.Error())
		assert.True(t, errors.Is(err, cause))
		assert.Equal(t, 503, err.StatusCode())
	})

	t.Run("status error does not repeat cause", func(t *testing.T) {
		cause := errors.New("429 Too Many Requests")
		err := NewStatusError(429, cause)

		assert.Equal(t, "429 Too Many Requests", err.Error())
		assert.True(t, IsTransient(err))
	})

	t.Run("helpers see through wrapping", func(t *testing.T) {
		err := fmt.Errorf("turn 2: %w", NewStatusError(401, errors.New("bad key")))

		assert.True(t, IsPermanent(err))
		assert.False(t, IsTransient(err))
		assert.False(t, IsUserInput(err))
		assert.Equal(t, 401, StatusCodeOf(err))
	})

	t.Run("plain errors are uncategorized", func(t *testing.T) {
		err := errors.New("boom")

		assert.False(t, IsTransient(err))
		assert.False(t, IsUserInput(err))
		assert.Zero(t, StatusCodeOf(err))
	})
}
