package openai

import (
	"errors"

	"github.com/openai/openai-go"

	ai "github.com/spetersoncode/convagent"
)

// wrapError categorizes OpenAI API errors by HTTP status.
// Network errors are returned unchanged.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	return ai.NewStatusError(apiErr.StatusCode, err)
}
