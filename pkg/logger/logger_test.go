package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContextAttachesKnownKeys(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "debug", "json")
	t.Cleanup(func() { defaultLogger = nil })

	ctx := WithContext(context.Background(), SessionIDKey, "sess-1")
	ctx = WithContext(ctx, ProjectIDKey, int64(7))
	ctx = WithContext(ctx, ProviderKey, "ollama")

	Error(ctx, "generate failed", errors.New("timeout"), "data_type", "character")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "sess-1", line["session_id"])
	assert.Equal(t, float64(7), line["project_id"])
	assert.Equal(t, "ollama", line["provider"])
	assert.Equal(t, "timeout", line["error"])
	assert.Equal(t, "character", line["data_type"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "WARN", parseLevel("warning").String())
	assert.Equal(t, "INFO", parseLevel("bogus").String())
}
