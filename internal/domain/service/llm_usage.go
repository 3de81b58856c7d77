package service

import "context"

// LLMUsageInput 一次 LLM 调用的用量数据，由 eino 回调产生
type LLMUsageInput struct {
	Operation string
	Provider  string
	Model     string

	PromptTokens     int
	CompletionTokens int
	DurationMs       int
}

// LLMUsageRecorder 记录 LLM 用量
// 实现必须是 best-effort 的，不能阻塞或影响调用结果
type LLMUsageRecorder interface {
	Record(ctx context.Context, in LLMUsageInput) error
}
