package thinking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessWithoutThinkBlock(t *testing.T) {
	content, thinking := Process("  plain answer \n")
	assert.Equal(t, "plain answer", content)
	assert.Nil(t, thinking)
}

func TestProcessSingleBlock(t *testing.T) {
	content, thinking := Process("<think>A</think>B")
	assert.Equal(t, "B", content)
	require.NotNil(t, thinking)
	assert.Equal(t, "A", *thinking)
}

func TestProcessMultipleBlocksCaseInsensitiveMultiline(t *testing.T) {
	raw := "<THINK>\nstep one\n</THINK>第一段\n<think>step two</Think>第二段"
	content, thinking := Process(raw)
	assert.Equal(t, "第一段\n第二段", content)
	require.NotNil(t, thinking)
	assert.Equal(t, "step one\n\n\nstep two", *thinking)
}

func TestProcessUnclosedTagIsKept(t *testing.T) {
	content, thinking := Process("<think>never closed")
	assert.Equal(t, "<think>never closed", content)
	assert.Nil(t, thinking)
}

func TestProcessIsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"<think>A</think>B",
		"<thi<think>x</think>nk>y</think>tail",
		"<think><think>nested</think></think>rest",
		"<think>a</think><think>b</think>",
		"prefix <think>unclosed",
	}
	for _, in := range inputs {
		content, _ := Process(in)
		_, again := Process(content)
		assert.Nil(t, again, "input %q", in)
	}
}

func TestProcessReassembledTag(t *testing.T) {
	content, thinking := Process("<thi<think>x</think>nk>y</think>tail")
	assert.Equal(t, "tail", content)
	require.NotNil(t, thinking)
	assert.Equal(t, "x\n\ny", *thinking)
}

func TestSplitKeepsRaw(t *testing.T) {
	res := Split("<think>r</think> answer")
	assert.Equal(t, "answer", res.Content)
	assert.Equal(t, "<think>r</think> answer", res.RawResponse)
	require.NotNil(t, res.Thinking)
	assert.Equal(t, "r", *res.Thinking)
}
