package imagegen

import (
	"encoding/json"
	"errors"
	"strings"
)

const (
	fallbackGenerate  = "Failed to generate image"
	fallbackVariation = "Failed to create image variation"
	fallbackEdit      = "Failed to create image edit"
)

// APIError is a rejection reported by the image service.
type APIError struct {
	StatusCode int
	Message    string
	Type       string
	Code       string
}

// Error returns the service's message verbatim.
func (e *APIError) Error() string {
	return e.Message
}

type errorBody struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

func parseAPIError(status int, body []byte, fallback string) *APIError {
	apiErr := &APIError{StatusCode: status, Message: fallback}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || eb.Error == nil {
		return apiErr
	}
	if msg := strings.TrimSpace(eb.Error.Message); msg != "" {
		apiErr.Message = eb.Error.Message
	}
	apiErr.Type = eb.Error.Type
	if code, ok := eb.Error.Code.(string); ok {
		apiErr.Code = code
	}
	return apiErr
}

// UserMessage is the text to show a user for err: the service message for
// API rejections, err.Error() otherwise.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
