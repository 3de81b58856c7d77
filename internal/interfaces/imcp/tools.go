package imcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"novel-assistant/internal/application/gateway"
)

func (s *MCPServer) registerTools() {
	s.srv.AddTool(mcp.NewTool("set_current_project",
		mcp.WithDescription("设置当前操作的小说项目，后续读写都作用于该项目"),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("项目 ID")),
	), s.handleSetCurrentProject)

	s.srv.AddTool(mcp.NewTool("get_current_project",
		mcp.WithDescription("获取当前操作的项目 ID"),
	), s.handleGetCurrentProject)

	s.srv.AddTool(mcp.NewTool("read_project_data",
		mcp.WithDescription("读取当前项目的数据，data_type 为空时读取全部类型"),
		mcp.WithString("data_type", mcp.Description("数据类型，例如 character、world_setting")),
	), s.handleReadProjectData)

	s.srv.AddTool(mcp.NewTool("write_project_data",
		mcp.WithDescription("在当前项目下创建或更新一条记录，更新时 data 必须包含 id"),
		mcp.WithString("data_type", mcp.Required(), mcp.Description("数据类型")),
		mcp.WithObject("data", mcp.Required(), mcp.Description("记录字段")),
		mcp.WithString("operation", mcp.Enum("create", "update"), mcp.Description("默认 create")),
	), s.handleWriteProjectData)

	s.srv.AddTool(mcp.NewTool("batch_write_project_data",
		mcp.WithDescription("批量创建记录，键为数据类型，值为记录数组；单条失败不影响其余记录"),
		mcp.WithObject("data", mcp.Required(), mcp.Description("{data_type: [record, ...]}")),
	), s.handleBatchWriteProjectData)

	s.srv.AddTool(mcp.NewTool("delete_project_data",
		mcp.WithDescription("删除当前项目下的一条记录"),
		mcp.WithString("data_type", mcp.Required(), mcp.Description("数据类型")),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("记录 ID")),
	), s.handleDeleteProjectData)

	s.srv.AddTool(mcp.NewTool("search_project_data",
		mcp.WithDescription("在当前项目数据中做不区分大小写的子串搜索"),
		mcp.WithString("query", mcp.Required(), mcp.Description("搜索关键词")),
		mcp.WithArray("data_types", mcp.Description("限定搜索的数据类型，为空时搜索全部"), mcp.Items(map[string]any{"type": "string"})),
	), s.handleSearchProjectData)

	s.srv.AddTool(mcp.NewTool("get_project_context",
		mcp.WithDescription("获取当前项目的上下文快照：项目信息、统计、最近操作和可用数据类型"),
	), s.handleGetProjectContext)

	s.srv.AddTool(mcp.NewTool("get_operation_log",
		mcp.WithDescription("获取最近的 AI 操作日志"),
		mcp.WithNumber("limit", mcp.Description("条数，默认 50")),
	), s.handleGetOperationLog)

	if s.gen != nil {
		kinds := make([]string, 0, len(gateway.GenerationKinds()))
		for _, k := range gateway.GenerationKinds() {
			kinds = append(kinds, string(k))
		}
		s.srv.AddTool(mcp.NewTool("generate_text",
			mcp.WithDescription("调用当前 AI 供应商生成文本，kind 指定时使用对应的创作模板"),
			mcp.WithString("prompt", mcp.Required(), mcp.Description("提示词")),
			mcp.WithString("kind", mcp.Enum(kinds...), mcp.Description("生成类型，为空时直接使用 prompt")),
			mcp.WithNumber("max_tokens", mcp.Description("最大生成长度")),
			mcp.WithNumber("temperature", mcp.Description("采样温度")),
		), s.handleGenerateText)
	}
}
