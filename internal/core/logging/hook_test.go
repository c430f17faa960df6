package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHook(t *testing.T) {
	t.Run("adds ids from context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf).Hook(ContextHook{})

		ctx := WithRequestID(context.Background(), "req-42")
		ctx = WithActorID(ctx, "alice")

		logger.Info().Ctx(ctx).Msg("hello")

		var event map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
		assert.Equal(t, "req-42", event["request_id"])
		assert.Equal(t, "alice", event["actor_id"])
	})

	t.Run("no fields without context values", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf).Hook(ContextHook{})

		logger.Info().Msg("hello")

		var event map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
		assert.NotContains(t, event, "request_id")
		assert.NotContains(t, event, "actor_id")
	})
}
