package gateway

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	for _, kind := range GenerationKinds() {
		prompt, ok := BuildPrompt(kind, "一个修仙世界")
		require.True(t, ok, kind)
		assert.Contains(t, prompt, "一个修仙世界")
		assert.Contains(t, prompt, "1. ")
	}

	prompt, _ := BuildPrompt(KindCharacter, "少年")
	assert.True(t, strings.HasPrefix(prompt, "请根据以下要求生成小说人物："))
	assert.Contains(t, prompt, "7. 成长轨迹")

	_, ok := BuildPrompt("poem", "x")
	assert.False(t, ok)
}
