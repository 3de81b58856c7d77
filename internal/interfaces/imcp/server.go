// Package imcp 通过 MCP 协议把 AI 项目上下文暴露为工具
package imcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"novel-assistant/internal/application/aicontext"
	"novel-assistant/internal/application/thinking"
	"novel-assistant/internal/domain/service"
)

// Generator generate_text 工具依赖的网关能力
type Generator interface {
	CurrentProvider() service.ProviderID
	CheckConnection(ctx context.Context) bool
	GenerateWithThinking(ctx context.Context, prompt string, opts service.GenerateOptions) (thinking.Result, error)
}

// MCPServer MCP 工具服务，stdio 进程只对应一个会话
type MCPServer struct {
	ai  *aicontext.Context
	gen Generator
	srv *server.MCPServer
}

// NewMCPServer 创建并注册全部工具，gen 为 nil 时不注册 generate_text
func NewMCPServer(name, version string, ai *aicontext.Context, gen Generator) *MCPServer {
	s := &MCPServer{
		ai:  ai,
		gen: gen,
		srv: server.NewMCPServer(
			name,
			version,
			server.WithToolCapabilities(true),
			server.WithRecovery(),
			server.WithInstructions("先调用 set_current_project 选择项目，再读写该项目下的小说设定数据。"),
		),
	}
	s.registerTools()
	return s
}

// Server 返回底层 mcp-go 服务
func (s *MCPServer) Server() *server.MCPServer {
	return s.srv
}

// ServeStdio 在标准输入输出上提供服务，直到输入关闭
func (s *MCPServer) ServeStdio() error {
	return server.ServeStdio(s.srv)
}

// jsonResult 以缩进 JSON 文本返回工具结果
func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to encode result: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}
