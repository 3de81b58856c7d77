// Package callback 注册 Eino 全局回调，为 OpenAI 兼容供应商采集 token 用量与追踪
package callback

import (
	"context"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	cbtemplate "github.com/cloudwego/eino/utils/callbacks"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"novel-assistant/internal/domain/service"
	"novel-assistant/pkg/logger"
	"novel-assistant/pkg/metrics"
)

type startTimeKey struct{}

// 调用次数与耗时由 gateway 统一上报，这里只负责 token 与 span
func newChatModelCallbackHandler(usageRecorder service.LLMUsageRecorder) *cbtemplate.ModelCallbackHandler {
	return &cbtemplate.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *model.CallbackInput) context.Context {
			ctx = context.WithValue(ctx, startTimeKey{}, time.Now())

			attrs := []attribute.KeyValue{
				attribute.String("llm.operation", service.OperationFromContext(ctx)),
				attribute.String("llm.provider", service.ProviderFromContext(ctx)),
				attribute.String("llm.model", modelNameFromInput(input)),
			}
			if info != nil {
				attrs = append(attrs, attribute.String("eino.type", info.Type))
			}

			ctx, _ = otel.Tracer("eino").Start(ctx, "llm.chat_model", trace.WithAttributes(attrs...))
			return ctx
		},

		OnEnd: func(ctx context.Context, _ *einocb.RunInfo, output *model.CallbackOutput) context.Context {
			span := trace.SpanFromContext(ctx)
			defer span.End()

			if output == nil || output.TokenUsage == nil {
				return ctx
			}

			provider := service.ProviderFromContext(ctx)
			modelName := modelNameFromOutput(output)
			promptTokens := output.TokenUsage.PromptTokens
			completionTokens := output.TokenUsage.CompletionTokens

			metrics.LLMTokensUsed.WithLabelValues(provider, modelName, "prompt").Add(float64(promptTokens))
			metrics.LLMTokensUsed.WithLabelValues(provider, modelName, "completion").Add(float64(completionTokens))
			span.SetAttributes(
				attribute.Int("llm.prompt_tokens", promptTokens),
				attribute.Int("llm.completion_tokens", completionTokens),
			)

			if usageRecorder != nil {
				err := usageRecorder.Record(ctx, service.LLMUsageInput{
					Operation:        service.OperationFromContext(ctx),
					Provider:         provider,
					Model:            modelName,
					PromptTokens:     promptTokens,
					CompletionTokens: completionTokens,
					DurationMs:       int(elapsedSeconds(ctx) * 1000),
				})
				if err != nil {
					logger.Warn(ctx, "failed to record llm usage", "error", err.Error())
				}
			}
			return ctx
		},

		OnError: func(ctx context.Context, _ *einocb.RunInfo, err error) context.Context {
			span := trace.SpanFromContext(ctx)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			return ctx
		},
	}
}

func elapsedSeconds(ctx context.Context) float64 {
	start, ok := ctx.Value(startTimeKey{}).(time.Time)
	if !ok || start.IsZero() {
		return 0
	}
	return time.Since(start).Seconds()
}

func modelNameFromInput(in *model.CallbackInput) string {
	if in == nil || in.Config == nil {
		return ""
	}
	return in.Config.Model
}

func modelNameFromOutput(out *model.CallbackOutput) string {
	if out == nil || out.Config == nil {
		return ""
	}
	return out.Config.Model
}
