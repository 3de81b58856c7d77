package middleware

import (
	"github.com/gin-gonic/gin"

	"novel-assistant/internal/application/aicontext"
	"novel-assistant/pkg/logger"
)

const (
	// DefaultSessionHeader 默认会话头
	DefaultSessionHeader = "X-Session-ID"
	// SessionIDContextKey gin 上下文中的会话 ID 键
	SessionIDContextKey = "session_id"

	aiContextKey = "ai_context"
)

// Session 解析会话头并绑定该会话的 AI 项目上下文
// 缺省会话头的请求共享 default 会话
func Session(store *aicontext.SessionStore, header string) gin.HandlerFunc {
	if header == "" {
		header = DefaultSessionHeader
	}
	return func(c *gin.Context) {
		sessionID := c.GetHeader(header)
		if sessionID == "" {
			sessionID = aicontext.DefaultSessionID
		}

		c.Set(SessionIDContextKey, sessionID)
		c.Set(aiContextKey, store.Get(sessionID))

		ctx := logger.WithContext(c.Request.Context(), logger.SessionIDKey, sessionID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetAIContext 获取当前请求会话的 AI 项目上下文
func GetAIContext(c *gin.Context) *aicontext.Context {
	v, ok := c.Get(aiContextKey)
	if !ok {
		return nil
	}
	ac, _ := v.(*aicontext.Context)
	return ac
}
