package apperr

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/streamspace-dev/codesandbox/internal/logger"
)

// Recovery recovers panics from downstream handlers into a 500 response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.HTTP().Error().Interface("panic", r).Msg("recovered from panic")
				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Error:   string(CodeInternal),
					Message: "an unexpected error occurred",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// Abort aborts the request immediately with the given error, logging it at
// a severity matched to the resulting status code.
func Abort(c *gin.Context, err *AppError) {
	c.Error(err)

	log := logger.HTTP()
	if err.StatusCode() >= 500 {
		log.Error().Str("code", string(err.Code)).Err(err).Msg("request failed")
	} else {
		log.Warn().Str("code", string(err.Code)).Msg(err.Message)
	}

	c.AbortWithStatusJSON(err.StatusCode(), err.ToResponse())
}
