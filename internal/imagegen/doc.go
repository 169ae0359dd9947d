// Package imagegen is a stateless client for the OpenAI Images API.
//
// # Overview
//
// Three operations are supported: Generate (prompt → images), Vary (image →
// variations) and Edit (image + mask + prompt → images). Every call carries
// the caller's API key as a bearer token; the key is not stored.
//
// Responses are always requested as base64 so that the caller owns the bytes
// and can persist them. gpt-image-1 responses may include a token usage
// report that feeds cost estimation.
//
// # Errors
//
// A non-2xx reply is returned as *APIError whose Error() is the service's
// own message, so it can be shown to the user unchanged. Transport failures
// are wrapped ordinary errors. Calls are never retried.
//
// Typical Usage
//
//	c := imagegen.NewClient(imagegen.DefaultBaseURL, imagegen.WithRateLimit(5))
//	resp, err := c.Generate(ctx, key, imagegen.GenerateRequest{
//	    Model:  models.ModelDallE2,
//	    Prompt: "a lighthouse at dusk",
//	    N:      2,
//	    Size:   models.Size512,
//	})
package imagegen
