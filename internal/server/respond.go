package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/auth"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/interview"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/llm"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/speech"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/store"
)

// errorBody is the envelope every failed request returns.
type errorBody struct {
	Error string `json:"error"`
}

func fail(c *gin.Context, err error) {
	var (
		invalid     *llm.ErrInvalidResponse
		truncated   *llm.ErrMaxTokensExceeded
		rateLimited *llm.ErrRateLimit
		unavailable *llm.ErrProviderUnavailable
	)

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, auth.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, interview.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, interview.ErrNotEnded), errors.Is(err, interview.ErrEnded):
		status = http.StatusConflict
	case errors.Is(err, speech.ErrNotConfigured):
		status = http.StatusServiceUnavailable
	case errors.As(err, &invalid),
		errors.As(err, &truncated),
		errors.As(err, &rateLimited),
		errors.As(err, &unavailable):
		status = http.StatusBadGateway
	}

	c.AbortWithStatusJSON(status, errorBody{Error: err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{Error: msg})
}
