// Package llm 提供各 LLM 供应商的适配器与构建工厂
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"novel-assistant/internal/domain/service"
	"novel-assistant/pkg/errors"
)

const connectionProbePrompt = "测试连接"

// resolved 合并单次参数与供应商默认值后的生成参数
type resolved struct {
	maxTokens        int
	temperature      float64
	topP             *float64
	frequencyPenalty *float64
	presencePenalty  *float64
}

func resolve(s service.ProviderSettings, opts service.GenerateOptions) resolved {
	r := resolved{
		maxTokens:        s.MaxTokens,
		temperature:      s.Temperature,
		topP:             s.TopP,
		frequencyPenalty: s.FrequencyPenalty,
		presencePenalty:  s.PresencePenalty,
	}
	if r.maxTokens <= 0 {
		r.maxTokens = 2000
	}
	if opts.MaxTokens != nil {
		r.maxTokens = *opts.MaxTokens
	}
	if opts.Temperature != nil {
		r.temperature = *opts.Temperature
	}
	if opts.TopP != nil {
		r.topP = opts.TopP
	}
	if opts.FrequencyPenalty != nil {
		r.frequencyPenalty = opts.FrequencyPenalty
	}
	if opts.PresencePenalty != nil {
		r.presencePenalty = opts.PresencePenalty
	}
	return r
}

// flattenMessages 把多轮消息压成 "role: content" 行
// 仅有单轮接口的供应商用它实现 ChatComplete，角色结构会丢失
func flattenMessages(messages []service.Message) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, m.Role+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}

// classify 将底层错误归类为 Transport 或 Upstream
func classify(id service.ProviderID, err error) error {
	if err == nil {
		return nil
	}
	if errors.IsAppError(err) {
		return err
	}
	var netErr net.Error
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) || stderrors.As(err, &netErr) {
		return errors.Transport(string(id), err)
	}
	return errors.UpstreamErr(string(id), err)
}

// jsonClient 供没有官方 SDK 的供应商使用的最小 JSON over HTTP 客户端
type jsonClient struct {
	id   service.ProviderID
	http *http.Client
}

// do 发送 JSON 请求并解码响应，非 2xx 返回带响应体的 Upstream 错误
func (c *jsonClient) do(ctx context.Context, method, endpoint string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", c.id, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", c.id, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return classify(c.id, redactURLError(err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return classify(c.id, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Upstream(string(c.id), resp.StatusCode, string(raw))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.UpstreamErr(string(c.id), fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// 出现在 URL 查询串里的凭据参数
var secretQueryParams = []string{"key", "api_key"}

// redactURLError 去掉 *url.Error 中 URL 携带的凭据
func redactURLError(err error) error {
	var ue *url.Error
	if !stderrors.As(err, &ue) {
		return err
	}
	return &url.Error{Op: ue.Op, URL: redactURL(ue.URL), Err: ue.Err}
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<redacted>"
	}
	q := u.Query()
	changed := false
	for _, name := range secretQueryParams {
		if q.Has(name) {
			q.Set(name, "***")
			changed = true
		}
	}
	if !changed {
		return raw
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func ptrFloat32(f float64) *float32 {
	v := float32(f)
	return &v
}
