package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

type (
	// Handler processes jobs of one name. Implementations are looked up by
	// Name when a worker claims a job.
	Handler interface {
		Name() string
		Handle(ctx context.Context, payload json.RawMessage) error
	}

	JobHandlerFunc[T any] func(ctx context.Context, payload T) error
)

// NewJobHandler wraps a typed function into a Handler. The job name is
// derived from the payload type, so enqueuing a value of T and registering a
// handler for T line up without string constants.
func NewJobHandler[T any](handler JobHandlerFunc[T]) Handler {
	var payload T
	return &jobHandler[T]{
		name:    qualifiedStructName(payload),
		handler: handler,
	}
}

type jobHandler[T any] struct {
	name    string
	handler JobHandlerFunc[T]
}

func (h *jobHandler[T]) Name() string {
	return h.name
}

func (h *jobHandler[T]) Handle(ctx context.Context, payload json.RawMessage) error {
	var t T
	if err := json.Unmarshal(payload, &t); err != nil {
		return err
	}
	return h.handler(ctx, t)
}

func qualifiedStructName(v any) string {
	return strings.TrimLeft(fmt.Sprintf("%T", v), "*")
}
