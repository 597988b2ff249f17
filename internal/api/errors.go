package api

import (
	"errors"
	"net/http"

	"github.com/article-engagement-api/internal/middleware"
	"github.com/article-engagement-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const internalMessage = "internal server error"

var statusByKind = map[service.Kind]int{
	service.KindUnauthenticated: http.StatusUnauthorized,
	service.KindInvalidInput:    http.StatusBadRequest,
	service.KindNotFound:        http.StatusNotFound,
	service.KindForbidden:       http.StatusForbidden,
	service.KindConflict:        http.StatusConflict,
	service.KindInternal:        http.StatusInternalServerError,
}

// StatusFor returns the HTTP status for an error kind
func StatusFor(kind service.Kind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func errorBody(kind service.Kind, message string) gin.H {
	return gin.H{"error": message, "code": string(kind)}
}

// respondError writes err as {"error","code"}. Internal causes are logged and
// replaced by a generic message.
func respondError(c *gin.Context, log zerolog.Logger, operation string, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		svcErr = &service.Error{Kind: service.KindInternal, Message: internalMessage, Err: err}
	}

	message := svcErr.Message
	if svcErr.Kind == service.KindInternal {
		log.Error().Err(err).
			Str("request_id", middleware.GetRequestID(c)).
			Str("operation", operation).
			Msg("Request failed")
		message = internalMessage
	}

	c.JSON(StatusFor(svcErr.Kind), errorBody(svcErr.Kind, message))
}

// badRequest rejects a malformed request before it reaches a service
func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorBody(service.KindInvalidInput, message))
}

// unauthorized rejects an anonymous caller on a mutating route
func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, errorBody(service.KindUnauthenticated, "login required"))
}
