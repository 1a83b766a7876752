// Package mediator provides an in-process command/query dispatcher with a
// composable behavior pipeline and a uniform Result outcome for every
// dispatch.
//
// Projects generated by forge embed this package as their application bus:
// handlers register against a process-wide Mediator during initialization,
// and route handlers dispatch through Send/Ask (or their asynchronous
// variants) and translate the returned Result into a transport response.
//
// The Mediator holds two disjoint registries, one for commands and one for
// queries, keyed by the message name each type declares. Registries are
// meant to be populated during startup and treated as read-only afterwards;
// dispatching concurrently with registration is unsupported and its
// behavior is undefined.
package mediator

import (
	"context"
	"fmt"
	"log/slog"
)

// Message is any value routed through the mediator. Concrete messages are
// commands or queries; the interface is open so behaviors can forward
// transformed values.
type Message interface{}

// Command is a request to mutate state, routed to at most one handler.
// CommandName must be constant for a given type; it is the dispatch key.
type Command interface {
	CommandName() string
}

// Query is a request to read state, routed to at most one handler.
type Query interface {
	QueryName() string
}

// Handler processes a single message. Returning a non-nil error reports a
// fault; the mediator converts it to a failed Result rather than letting it
// escape. Returning a Result passes it through to the caller unchanged, and
// any other value is wrapped in Ok.
type Handler func(ctx context.Context, msg Message) (any, error)

// Mediator routes commands and queries to their registered handlers through
// the behavior pipeline. The zero value is not usable; construct with New.
type Mediator struct {
	commands  map[string]Handler
	queries   map[string]Handler
	behaviors []Behavior
	logger    *slog.Logger
}

// Option configures a Mediator during construction.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	noDefaults bool
}

// WithLogger sets the logger used by the mediator and its built-in
// behaviors. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithoutDefaultBehaviors builds a mediator with an empty pipeline instead
// of the built-in logging behavior.
func WithoutDefaultBehaviors() Option {
	return func(o *options) {
		o.noDefaults = true
	}
}

// New constructs a Mediator. Unless disabled, the built-in Logging behavior
// is installed first so it stays outermost relative to behaviors the caller
// adds afterwards.
func New(opts ...Option) *Mediator {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Mediator{
		commands: make(map[string]Handler),
		queries:  make(map[string]Handler),
		logger:   o.logger,
	}
	if !o.noDefaults {
		m.Use(Logging(m.logger))
	}
	return m
}

// RegisterCommand binds handler to the command name. Registering a name
// that is already bound replaces the previous handler; last write wins.
func (m *Mediator) RegisterCommand(name string, handler Handler) {
	m.commands[name] = handler
}

// RegisterQuery binds handler to the query name, replacing any previous
// binding for that name.
func (m *Mediator) RegisterQuery(name string, handler Handler) {
	m.queries[name] = handler
}

// Use appends a behavior to the pipeline. Behaviors run in the order they
// were added, first added outermost.
func (m *Mediator) Use(behavior Behavior) {
	m.behaviors = append(m.behaviors, behavior)
}

// Send dispatches a command synchronously. A missing registration is a
// normal, recoverable outcome reported as a failed Result; Send never
// panics out of a handler or behavior fault.
func (m *Mediator) Send(ctx context.Context, cmd Command) Result {
	handler, ok := m.commands[cmd.CommandName()]
	if !ok {
		return noHandler("command", cmd.CommandName())
	}
	return m.dispatch(ctx, cmd, handler)
}

// Ask dispatches a query synchronously, with the same contract as Send
// against the query registry.
func (m *Mediator) Ask(ctx context.Context, query Query) Result {
	handler, ok := m.queries[query.QueryName()]
	if !ok {
		return noHandler("query", query.QueryName())
	}
	return m.dispatch(ctx, query, handler)
}

// SendAsync dispatches a command on its own goroutine and delivers exactly
// one Result on the returned channel. Lookup, pipeline and error
// containment are shared with Send; only the wait for completion differs.
func (m *Mediator) SendAsync(ctx context.Context, cmd Command) <-chan Result {
	out := make(chan Result, 1)
	handler, ok := m.commands[cmd.CommandName()]
	if !ok {
		out <- noHandler("command", cmd.CommandName())
		close(out)
		return out
	}
	go func() {
		defer close(out)
		out <- m.dispatch(ctx, cmd, handler)
	}()
	return out
}

// AskAsync dispatches a query on its own goroutine, with the same contract
// as SendAsync against the query registry.
func (m *Mediator) AskAsync(ctx context.Context, query Query) <-chan Result {
	out := make(chan Result, 1)
	handler, ok := m.queries[query.QueryName()]
	if !ok {
		out <- noHandler("query", query.QueryName())
		close(out)
		return out
	}
	go func() {
		defer close(out)
		out <- m.dispatch(ctx, query, handler)
	}()
	return out
}

// dispatch runs msg through the behavior pipeline and normalizes the
// outcome. Handler and behavior faults, whether returned errors or panics,
// terminate here as failed Results.
func (m *Mediator) dispatch(ctx context.Context, msg Message, handler Handler) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.ErrorContext(ctx, "panic during dispatch",
				"message", MessageName(msg), "panic", r)
			res = Failf("%v", r)
		}
	}()

	out, err := m.invoke(ctx, msg, handler)
	if err != nil {
		m.logger.ErrorContext(ctx, "dispatch failed",
			"message", MessageName(msg), "error", err)
		return Fail(err.Error())
	}
	if r, ok := out.(Result); ok {
		return r
	}
	return Ok(out)
}

// invoke composes the behavior chain around handler: stage i calls behavior
// i with a continuation that recurses into stage i+1, and the final stage
// invokes the handler with whatever message reached it.
func (m *Mediator) invoke(ctx context.Context, msg Message, handler Handler) (any, error) {
	var stage func(i int) Next
	stage = func(i int) Next {
		return func(ctx context.Context, msg Message) (any, error) {
			if i == len(m.behaviors) {
				return handler(ctx, msg)
			}
			return m.behaviors[i](ctx, msg, stage(i+1))
		}
	}
	return stage(0)(ctx, msg)
}

func noHandler(kind, name string) Result {
	return Fail(fmt.Sprintf("no handler registered for %s %s", kind, name))
}
