package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContextAddsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "production")

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithUserID(ctx, "user-1")
	ctx = WithCompanyID(ctx, "company-1")

	CtxInfo(ctx, "hello", "k", "v")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "user-1", entry["user_id"])
	assert.Equal(t, "company-1", entry["company_id"])
	assert.Equal(t, "v", entry["k"])
}

func TestInitRespectsExplicitLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "production", "warn")

	Info("dropped")
	assert.Zero(t, buf.Len())

	Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestCtxWithErrorIncludesError(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "production")

	CtxWithError(context.Background(), "failed", assert.AnError)

	assert.Contains(t, buf.String(), assert.AnError.Error())
}
