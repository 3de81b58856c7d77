package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskedNeverLeaksLongKeys(t *testing.T) {
	cases := map[string]string{
		"sk-1234567890abcd": "***abcd",
		"12345":             "***2345",
		"1234":              "***",
		"ab":                "***",
		"":                  "",
	}
	for key, want := range cases {
		got := ProviderSettings{APIKey: key}.Masked()
		assert.Equal(t, want, got.APIKey, "key %q", key)
	}
}

func TestPatchApplyIsShallow(t *testing.T) {
	base := ProviderSettings{APIKey: "old", Model: "glm-4", MaxTokens: 2000, Temperature: 0.7}
	model := "glm-4-plus"
	topP := 0.8

	got := ProviderSettingsPatch{Model: &model, TopP: &topP}.Apply(base)

	assert.Equal(t, "old", got.APIKey)
	assert.Equal(t, "glm-4-plus", got.Model)
	assert.Equal(t, 2000, got.MaxTokens)
	assert.InDelta(t, 0.8, *got.TopP, 1e-9)
	assert.Equal(t, "glm-4", base.Model)
}

func TestKnownProviders(t *testing.T) {
	assert.Len(t, KnownProviders(), 8)
	assert.True(t, IsKnownProvider("siliconflow"))
	assert.False(t, IsKnownProvider("bard"))
}

func TestLLMContextDefaults(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", OperationFromContext(ctx))
	ctx = WithOperationProvider(ctx, " chat ", "claude")
	assert.Equal(t, "chat", OperationFromContext(ctx))
	assert.Equal(t, "claude", ProviderFromContext(ctx))
}
