// Package middleware 提供 HTTP 中间件
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"novel-assistant/pkg/errors"
	"novel-assistant/pkg/logger"
)

// Recovery Panic 恢复中间件，响应体与统一响应结构保持一致
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					fmt.Errorf("%v", rec),
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"session_id", c.GetString(SessionIDContextKey),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":       http.StatusInternalServerError,
					"message":    "internal server error",
					"error_code": errors.CodeInternalError,
					"trace_id":   c.GetString("trace_id"),
				})
			}
		}()

		c.Next()
	}
}
