package mediator

import (
	"context"
	"fmt"
	"log/slog"
)

// Next represents the remainder of the dispatch pipeline: the behaviors
// registered after the current one, terminated by the handler itself.
type Next func(ctx context.Context, msg Message) (any, error)

// Behavior is a pipeline stage wrapping handler invocation. A behavior may
// observe or transform the message before calling next, observe the outcome
// after next returns, or short-circuit by returning without calling next at
// all, in which case its return value becomes the dispatch result.
//
// Behaviors run in registration order, first registered outermost.
type Behavior func(ctx context.Context, msg Message, next Next) (any, error)

// Logging returns the built-in tracing behavior. It emits a debug record
// before and after the rest of the pipeline runs. New installs it as the
// outermost behavior unless the mediator was built WithoutDefaultBehaviors.
func Logging(logger *slog.Logger) Behavior {
	return func(ctx context.Context, msg Message, next Next) (any, error) {
		name := MessageName(msg)
		logger.DebugContext(ctx, "handling message", "message", name)
		out, err := next(ctx, msg)
		logger.DebugContext(ctx, "handled message", "message", name)
		return out, err
	}
}

// MessageName returns the dispatch key of a command or query, falling back
// to the dynamic type for anything else a behavior may be handed.
func MessageName(msg Message) string {
	switch m := msg.(type) {
	case Command:
		return m.CommandName()
	case Query:
		return m.QueryName()
	default:
		return fmt.Sprintf("%T", msg)
	}
}
