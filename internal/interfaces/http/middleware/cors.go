// Package middleware 提供 HTTP 中间件
package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"novel-assistant/internal/config"
)

const defaultCORSMaxAge = 12 * time.Hour

var (
	defaultCORSMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	defaultCORSHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
)

// CORS 跨域中间件，会话头总是出现在允许与暴露的头中
func CORS(cfg config.CORSConfig, sessionHeader string) gin.HandlerFunc {
	if sessionHeader == "" {
		sessionHeader = DefaultSessionHeader
	}

	c := cors.Config{
		AllowMethods:  orDefault(cfg.AllowedMethods, defaultCORSMethods),
		AllowHeaders:  withHeader(orDefault(cfg.AllowedHeaders, defaultCORSHeaders), sessionHeader),
		ExposeHeaders: []string{"X-Request-ID", "X-Trace-ID", "Retry-After", sessionHeader},
		MaxAge:        cfg.MaxAge,
	}
	if c.MaxAge <= 0 {
		c.MaxAge = defaultCORSMaxAge
	}

	// 通配来源不能与凭据同时使用
	if len(cfg.AllowedOrigins) == 0 || slices.Contains(cfg.AllowedOrigins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowedOrigins
		c.AllowCredentials = cfg.AllowCredentials
	}
	return cors.New(c)
}

func orDefault(values, def []string) []string {
	if len(values) == 0 {
		return slices.Clone(def)
	}
	return slices.Clone(values)
}

func withHeader(headers []string, header string) []string {
	if slices.Contains(headers, header) {
		return headers
	}
	return append(headers, header)
}
