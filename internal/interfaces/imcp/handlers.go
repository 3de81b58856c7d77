package imcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"novel-assistant/internal/application/aicontext"
	"novel-assistant/internal/application/gateway"
	"novel-assistant/internal/application/projectdata"
	"novel-assistant/internal/domain/service"
	"novel-assistant/pkg/logger"
)

// ==================== 参数辅助函数 ====================

func arguments(request mcp.CallToolRequest) map[string]any {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return args
}

func stringArg(args map[string]any, name string) string {
	v, _ := args[name].(string)
	return strings.TrimSpace(v)
}

func idArg(args map[string]any, name string) (int64, bool) {
	v, ok := args[name]
	if !ok {
		return 0, false
	}
	return projectdata.ParseID(v)
}

func numberArg(args map[string]any, name string) (float64, bool) {
	switch v := args[name].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// ==================== 项目上下文 ====================

func (s *MCPServer) handleSetCurrentProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := idArg(arguments(request), "project_id")
	if !ok {
		return mcp.NewToolResultError("project_id parameter is required"), nil
	}

	if !s.ai.SetCurrentProject(ctx, id) {
		return mcp.NewToolResultError(fmt.Sprintf("项目 %d 不存在", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("当前项目已设置为 %d", id)), nil
}

func (s *MCPServer) handleGetCurrentProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := s.ai.CurrentProjectID()
	if !ok {
		return mcp.NewToolResultError("未设置当前操作项目，请先调用 set_current_project"), nil
	}
	return jsonResult(map[string]any{"project_id": id})
}

func (s *MCPServer) handleReadProjectData(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := s.ai.Read(ctx, stringArg(arguments(request), "data_type"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(data)
}

func (s *MCPServer) handleWriteProjectData(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	dataType := stringArg(args, "data_type")
	if dataType == "" {
		return mcp.NewToolResultError("data_type parameter is required"), nil
	}
	data, ok := args["data"].(map[string]any)
	if !ok {
		return mcp.NewToolResultError("data parameter must be an object"), nil
	}

	record, err := s.ai.Write(ctx, dataType, data, stringArg(args, "operation"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(record)
}

func (s *MCPServer) handleBatchWriteProjectData(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, ok := arguments(request)["data"].(map[string]any)
	if !ok {
		return mcp.NewToolResultError("data parameter must be an object"), nil
	}

	batch := make(map[string][]map[string]any, len(raw))
	for dataType, v := range raw {
		items, ok := v.([]any)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("%s 的值必须是数组", dataType)), nil
		}
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				return mcp.NewToolResultError(fmt.Sprintf("%s 中的记录必须是对象", dataType)), nil
			}
			batch[dataType] = append(batch[dataType], m)
		}
	}

	result, err := s.ai.BatchWrite(ctx, batch)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

func (s *MCPServer) handleDeleteProjectData(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	dataType := stringArg(args, "data_type")
	if dataType == "" {
		return mcp.NewToolResultError("data_type parameter is required"), nil
	}
	id, ok := idArg(args, "id")
	if !ok {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	deleted, err := s.ai.Delete(ctx, dataType, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !deleted {
		return mcp.NewToolResultError(fmt.Sprintf("%s %d 不存在", dataType, id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("已删除 %s %d", dataType, id)), nil
}

func (s *MCPServer) handleSearchProjectData(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	query := stringArg(args, "query")
	if query == "" {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	var dataTypes []string
	if raw, ok := args["data_types"].([]any); ok {
		for _, v := range raw {
			if str, ok := v.(string); ok && str != "" {
				dataTypes = append(dataTypes, str)
			}
		}
	}

	results, err := s.ai.Search(ctx, query, dataTypes)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"query": query, "results": results})
}

func (s *MCPServer) handleGetProjectContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pc, err := s.ai.ProjectContext(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(pc)
}

func (s *MCPServer) handleGetOperationLog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := aicontext.DefaultLogLimit
	if v, ok := numberArg(arguments(request), "limit"); ok && v > 0 {
		limit = int(v)
	}
	entries := s.ai.OperationLog(limit)
	return jsonResult(map[string]any{"logs": entries, "count": len(entries)})
}

// ==================== 文本生成 ====================

func (s *MCPServer) handleGenerateText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	prompt := stringArg(args, "prompt")
	if prompt == "" {
		return mcp.NewToolResultError("prompt parameter is required"), nil
	}

	operation := "generate"
	if kind := stringArg(args, "kind"); kind != "" {
		wrapped, ok := gateway.BuildPrompt(gateway.GenerationKind(kind), prompt)
		if !ok {
			return mcp.NewToolResultError("unknown kind: " + kind), nil
		}
		prompt = wrapped
		operation = kind
	}

	var opts service.GenerateOptions
	if v, ok := numberArg(args, "max_tokens"); ok && v > 0 {
		n := int(v)
		opts.MaxTokens = &n
	}
	if v, ok := numberArg(args, "temperature"); ok && v >= 0 {
		opts.Temperature = &v
	}

	if !s.gen.CheckConnection(ctx) {
		return mcp.NewToolResultError(fmt.Sprintf("AI服务 (%s) 连接失败，请检查配置和网络连接", s.gen.CurrentProvider())), nil
	}

	result, err := s.gen.GenerateWithThinking(service.WithOperation(ctx, operation), prompt, opts)
	if err != nil {
		logger.Error(ctx, "mcp generate_text failed", err, "operation", operation)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"content":  result.Content,
		"thinking": result.Thinking,
		"provider": s.gen.CurrentProvider(),
	})
}
