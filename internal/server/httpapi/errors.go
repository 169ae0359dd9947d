package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/Yijia-Z/dalle2-app/internal/common"
	"github.com/Yijia-Z/dalle2-app/internal/imagegen"
	"github.com/gin-gonic/gin"
)

var errUploadTooLarge = errors.New("upload too large")

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: code, Message: message})
}

// fail maps err onto a status code. Image service rejections keep the
// service's own message.
func (h *Handler) fail(c *gin.Context, err error) {
	var apiErr *imagegen.APIError

	switch {
	case errors.As(err, &apiErr):
		abortWithError(c, http.StatusBadGateway, "upstream_error", apiErr.Message)
	case errors.Is(err, errUploadTooLarge):
		abortWithError(c, http.StatusRequestEntityTooLarge, "too_large", err.Error())
	case errors.Is(err, common.ErrorValidation):
		abortWithError(c, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, common.ErrNoAPIKey):
		abortWithError(c, http.StatusBadRequest, "missing_api_key", err.Error())
	case errors.Is(err, common.ErrorNotFound):
		abortWithError(c, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		abortWithError(c, http.StatusGatewayTimeout, "timeout", "image service did not answer in time")
	default:
		h.logger.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
		abortWithError(c, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
