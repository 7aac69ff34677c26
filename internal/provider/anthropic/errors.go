package anthropic

import (
	"errors"

	"github.com/anthropics/anthropic-sdk-go"

	ai "github.com/spetersoncode/convagent"
)

// wrapError categorizes Anthropic API errors by HTTP status.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	return ai.NewStatusError(apiErr.StatusCode, err)
}
