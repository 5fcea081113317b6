package queue_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/queue"
)

func TestNewJobHandler_NameFromType(t *testing.T) {
	h := queue.NewJobHandler(func(ctx context.Context, p testPayload) error { return nil })
	assert.Equal(t, "queue_test.testPayload", h.Name())

	hp := queue.NewJobHandler(func(ctx context.Context, p *testPayload) error { return nil })
	assert.Equal(t, "queue_test.testPayload", hp.Name())
}

func TestJobHandler_Handle(t *testing.T) {
	var got testPayload
	h := queue.NewJobHandler(func(ctx context.Context, p testPayload) error {
		got = p
		return nil
	})

	payload, err := json.Marshal(testPayload{Value: "x"})
	require.NoError(t, err)

	require.NoError(t, h.Handle(context.Background(), payload))
	assert.Equal(t, "x", got.Value)
}

func TestJobHandler_HandleInvalidPayload(t *testing.T) {
	h := queue.NewJobHandler(func(ctx context.Context, p testPayload) error { return nil })
	assert.Error(t, h.Handle(context.Background(), json.RawMessage(`not json`)))
}
