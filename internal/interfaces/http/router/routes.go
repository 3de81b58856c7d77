package router

import (
	"github.com/gin-gonic/gin"

	"novel-assistant/internal/application/gateway"
)

// RegisterV1Routes 注册 v1 版本路由，rateLimit 只挂在调用 LLM 的路由上
func RegisterV1Routes(v1 *gin.RouterGroup, h *Handlers, rateLimit gin.HandlerFunc) {
	ai := v1.Group("/ai")
	{
		ai.GET("/providers", h.AI.ListProviders)
		ai.POST("/switch-provider", h.AI.SwitchProvider)
		ai.POST("/config", h.AI.UpdateConfig)
		ai.GET("/config/:provider", h.AI.GetConfig)
		ai.GET("/status", h.AI.Status)

		ai.GET("/ollama/models", h.AI.OllamaModels)
		ai.GET("/ollama/test-connection", h.AI.OllamaTestConnection)
		ai.GET("/ollama/models/:name", h.AI.OllamaModelInfo)

		// 生成
		ai.POST("/chat", rateLimit, h.AI.Chat)
		ai.POST("/generate-setting", rateLimit, h.AI.Generate(gateway.KindWorldSetting, "AI生成设定失败"))
		ai.POST("/generate-character", rateLimit, h.AI.Generate(gateway.KindCharacter, "AI生成角色失败"))
		ai.POST("/generate-plot", rateLimit, h.AI.Generate(gateway.KindPlot, "AI生成剧情失败"))
		ai.POST("/continue-writing", rateLimit, h.AI.Generate(gateway.KindContinuation, "AI续写失败"))
		ai.POST("/check-consistency", rateLimit, h.AI.Generate(gateway.KindConsistencyCheck, "AI一致性检查失败"))

		// 项目上下文，按会话隔离
		ai.POST("/set-project/:id", h.AIContext.SetProject)
		ai.GET("/current-project", h.AIContext.CurrentProject)
		ai.GET("/read-data", h.AIContext.ReadData)
		ai.POST("/write-data/:type", h.AIContext.WriteData)
		ai.POST("/batch-write", h.AIContext.BatchWrite)
		ai.POST("/search", h.AIContext.Search)
		ai.GET("/context", h.AIContext.Context)
		ai.POST("/validate-operation", h.AIContext.ValidateOperation)
		ai.DELETE("/data/:type/:item", h.AIContext.DeleteData)
		ai.GET("/operation-log", h.AIContext.OperationLog)
		ai.DELETE("/operation-log", h.AIContext.ClearOperationLog)
	}

	projects := v1.Group("/projects")
	{
		projects.GET("", h.Project.ListProjects)
		projects.POST("", h.Project.CreateProject)
		projects.GET("/:id", h.Project.GetProject)
		projects.DELETE("/:id", h.Project.DeleteProject)

		projects.GET("/:id/data", h.Project.GetAllData)
		projects.DELETE("/:id/data", h.Project.ClearData)
		projects.GET("/:id/data/:type", h.Project.GetData)
		projects.POST("/:id/data/:type", h.Project.CreateData)
		projects.PUT("/:id/data/:type/:item", h.Project.UpdateData)
		projects.DELETE("/:id/data/:type/:item", h.Project.DeleteData)

		projects.GET("/:id/statistics", h.Project.Statistics)
		projects.POST("/:id/copy-to/:dst", h.Project.CopyData)
		projects.GET("/:id/validate", h.Project.ValidateData)
	}
}
