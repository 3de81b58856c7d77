// Package thinking 将模型输出中的 <think> 推理块与正文分离
package thinking

import (
	"regexp"
	"strings"
)

var thinkPattern = regexp.MustCompile(`(?is)<think>(.*?)</think>`)

// Result 分离后的结果
type Result struct {
	Content     string  `json:"content"`
	Thinking    *string `json:"thinking"`
	RawResponse string  `json:"raw_response"`
}

// Process 拆分推理链与正文
// 没有匹配到推理块时 thinking 为 nil；未闭合的 <think> 原样保留在正文中
func Process(raw string) (content string, thinking *string) {
	var blocks []string
	text := raw
	// 删除一轮之后可能拼出新的完整标签，例如 "<thi<think>x</think>nk>y</think>"
	// 反复删除直到不再匹配，保证对正文再处理一次不会得到新的推理块
	for {
		matches := thinkPattern.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			break
		}
		for _, m := range matches {
			blocks = append(blocks, m[1])
		}
		text = thinkPattern.ReplaceAllString(text, "")
	}

	content = strings.TrimSpace(text)
	if len(blocks) == 0 {
		return content, nil
	}
	joined := strings.TrimSpace(strings.Join(blocks, "\n\n"))
	return content, &joined
}

// Split 处理原始响应并保留原文
func Split(raw string) Result {
	content, thinking := Process(raw)
	return Result{Content: content, Thinking: thinking, RawResponse: raw}
}
