package gateway

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"novel-assistant/internal/domain/service"
)

// UsageSummary 某个供应商/模型自进程启动以来的 token 累计
type UsageSummary struct {
	Provider         string `json:"provider"`
	Model            string `json:"model"`
	Calls            int    `json:"calls"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
}

// UsageTracker 进程内的 LLM 用量累计，由 eino 回调写入
type UsageTracker struct {
	mu    sync.Mutex
	usage map[string]*UsageSummary
}

// NewUsageTracker 创建用量累计器
func NewUsageTracker() *UsageTracker {
	return &UsageTracker{usage: make(map[string]*UsageSummary)}
}

// Record 实现 service.LLMUsageRecorder
func (u *UsageTracker) Record(_ context.Context, in service.LLMUsageInput) error {
	if in.PromptTokens < 0 || in.CompletionTokens < 0 {
		return fmt.Errorf("invalid token usage")
	}
	provider := strings.TrimSpace(in.Provider)
	model := strings.TrimSpace(in.Model)
	key := provider + "/" + model

	u.mu.Lock()
	defer u.mu.Unlock()
	s, ok := u.usage[key]
	if !ok {
		s = &UsageSummary{Provider: provider, Model: model}
		u.usage[key] = s
	}
	s.Calls++
	s.PromptTokens += in.PromptTokens
	s.CompletionTokens += in.CompletionTokens
	return nil
}

// Snapshot 按 provider/model 排序返回当前累计
func (u *UsageTracker) Snapshot() []UsageSummary {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]UsageSummary, 0, len(u.usage))
	for _, s := range u.usage {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Provider != out[j].Provider {
			return out[i].Provider < out[j].Provider
		}
		return out[i].Model < out[j].Model
	})
	return out
}
