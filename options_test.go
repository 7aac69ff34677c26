package convagent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyOptions(t *testing.T) {
	t.Run("returns empty options when no options provided", func(t *testing.T) {
		opts := ApplyOptions()
		require.NotNil(t, opts)
		assert.Empty(t, opts.Model)
		assert.Zero(t, opts.MaxTokens)
		assert.Nil(t, opts.Temperature)
		assert.Nil(t, opts.Tools)
	})

	t.Run("applies multiple options", func(t *testing.T) {
		tools := []Tool{{Name: "convert_distance"}}
		opts := ApplyOptions(
			WithModel("gemini-1.5-flash"),
			WithMaxTokens(512),
			WithTemperature(0),
			WithTools(tools),
		)

		assert.Equal(t, "gemini-1.5-flash", opts.Model)
		assert.Equal(t, 512, opts.MaxTokens)
		require.NotNil(t, opts.Temperature)
		assert.Zero(t, *opts.Temperature)
		assert.Equal(t, tools, opts.Tools)
	})

	t.Run("later options override earlier ones", func(t *testing.T) {
		opts := ApplyOptions(WithModel("a"), WithModel("b"))
		assert.Equal(t, "b", opts.Model)
	})
}
