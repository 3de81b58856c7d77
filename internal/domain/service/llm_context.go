package service

import (
	"context"
	"strings"
)

type llmCtxKey string

const (
	llmCtxKeyOperation llmCtxKey = "llm_operation"
	llmCtxKeyProvider  llmCtxKey = "llm_provider"
)

// WithOperation 标记本次 LLM 调用所属的业务操作，例如 generate / chat / generate_setting
func WithOperation(ctx context.Context, operation string) context.Context {
	if ctx == nil {
		return nil
	}
	op := strings.TrimSpace(operation)
	if op == "" {
		return ctx
	}
	return context.WithValue(ctx, llmCtxKeyOperation, op)
}

func WithProvider(ctx context.Context, provider string) context.Context {
	if ctx == nil {
		return nil
	}
	p := strings.TrimSpace(provider)
	if p == "" {
		return ctx
	}
	return context.WithValue(ctx, llmCtxKeyProvider, p)
}

func WithOperationProvider(ctx context.Context, operation, provider string) context.Context {
	return WithProvider(WithOperation(ctx, operation), provider)
}

func OperationFromContext(ctx context.Context) string {
	return valueOrUnknown(ctx, llmCtxKeyOperation)
}

func ProviderFromContext(ctx context.Context) string {
	return valueOrUnknown(ctx, llmCtxKeyProvider)
}

func valueOrUnknown(ctx context.Context, key llmCtxKey) string {
	if ctx == nil {
		return "unknown"
	}
	s, ok := ctx.Value(key).(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return strings.TrimSpace(s)
}
