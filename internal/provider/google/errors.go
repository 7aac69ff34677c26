package google

import (
	"errors"

	"google.golang.org/genai"

	ai "github.com/spetersoncode/convagent"
)

// wrapError categorizes a Gemini API error by its HTTP status.
// Errors without a status (network failures) are returned unchanged.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	return ai.NewStatusError(apiErr.Code, err)
}
