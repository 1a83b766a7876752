//go:build property
// +build property

package mediator

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestPipelineProperties checks pipeline invariants for arbitrary behavior
// counts and short-circuit positions.
func TestPipelineProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Property: behaviors observe the message in registration order and
	// unwind in strict LIFO order around the handler.
	properties.Property("behavior ordering is registration order", prop.ForAll(
		func(count int) bool {
			m := New(WithLogger(logger), WithoutDefaultBehaviors())

			var trace []int
			for i := 0; i < count; i++ {
				idx := i
				m.Use(func(ctx context.Context, msg Message, next Next) (any, error) {
					trace = append(trace, idx)
					out, err := next(ctx, msg)
					trace = append(trace, -idx-1)
					return out, err
				})
			}
			m.RegisterCommand("CreateItem", func(ctx context.Context, msg Message) (any, error) {
				return nil, nil
			})

			if !m.Send(context.Background(), createItem{}).OK() {
				return false
			}
			if len(trace) != 2*count {
				return false
			}
			for i := 0; i < count; i++ {
				if trace[i] != i {
					return false
				}
				if trace[2*count-1-i] != -i-1 {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 16),
	))

	// Property: a behavior short-circuiting at position k means exactly the
	// first k behaviors ran and the handler never did.
	properties.Property("short-circuit stops the pipeline", prop.ForAll(
		func(count, cut int) bool {
			if cut >= count {
				return true // only short-circuit inside the pipeline
			}
			m := New(WithLogger(logger), WithoutDefaultBehaviors())

			ran := 0
			handlerRan := false
			for i := 0; i < count; i++ {
				idx := i
				m.Use(func(ctx context.Context, msg Message, next Next) (any, error) {
					ran++
					if idx == cut {
						return "stopped", nil
					}
					return next(ctx, msg)
				})
			}
			m.RegisterCommand("CreateItem", func(ctx context.Context, msg Message) (any, error) {
				handlerRan = true
				return nil, nil
			})

			res := m.Send(context.Background(), createItem{})
			return res.OK() && res.Value() == "stopped" && ran == cut+1 && !handlerRan
		},
		gen.IntRange(1, 12),
		gen.IntRange(0, 11),
	))

	// Property: any plain handler return value round-trips through Ok.
	properties.Property("plain values wrap in Ok", prop.ForAll(
		func(v int) bool {
			m := New(WithLogger(logger), WithoutDefaultBehaviors())
			m.RegisterQuery("GetItem", func(ctx context.Context, msg Message) (any, error) {
				return v, nil
			})
			res := m.Ask(context.Background(), getItem{})
			return res.OK() && res.Value() == v && res.Err() == ""
		},
		gen.Int(),
	))

	properties.TestingRun(t)
}
