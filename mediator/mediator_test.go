package mediator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createItem struct {
	Name string
}

func (createItem) CommandName() string { return "CreateItem" }

type deleteItem struct {
	ID int
}

func (deleteItem) CommandName() string { return "DeleteItem" }

type getItem struct {
	ID int
}

func (getItem) QueryName() string { return "GetItem" }

func quietMediator(opts ...Option) *Mediator {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(append([]Option{WithLogger(logger), WithoutDefaultBehaviors()}, opts...)...)
}

func TestSendUnregisteredCommand(t *testing.T) {
	m := quietMediator()

	res := m.Send(context.Background(), deleteItem{ID: 1})

	assert.False(t, res.OK())
	assert.Equal(t, "no handler registered for command DeleteItem", res.Err())
	assert.Nil(t, res.Value())
}

func TestAskUnregisteredQuery(t *testing.T) {
	m := quietMediator()

	res := m.Ask(context.Background(), getItem{ID: 1})

	assert.False(t, res.OK())
	assert.Equal(t, "no handler registered for query GetItem", res.Err())
}

func TestHandlerErrorBecomesFail(t *testing.T) {
	m := quietMediator()
	m.RegisterCommand("CreateItem", func(ctx context.Context, msg Message) (any, error) {
		return nil, errors.New("storage unavailable")
	})

	res := m.Send(context.Background(), createItem{Name: "hello"})

	assert.False(t, res.OK())
	assert.Equal(t, "storage unavailable", res.Err())
}

func TestHandlerPanicIsContained(t *testing.T) {
	m := quietMediator()
	m.RegisterCommand("CreateItem", func(ctx context.Context, msg Message) (any, error) {
		panic("boom")
	})

	var res Result
	require.NotPanics(t, func() {
		res = m.Send(context.Background(), createItem{Name: "hello"})
	})

	assert.False(t, res.OK())
	assert.Equal(t, "boom", res.Err())
}

func TestBehaviorPanicIsContained(t *testing.T) {
	m := quietMediator()
	m.RegisterQuery("GetItem", func(ctx context.Context, msg Message) (any, error) {
		return "item", nil
	})
	m.Use(func(ctx context.Context, msg Message, next Next) (any, error) {
		panic(errors.New("behavior fault"))
	})

	res := m.Ask(context.Background(), getItem{ID: 1})

	assert.False(t, res.OK())
	assert.Equal(t, "behavior fault", res.Err())
}

func TestResultPassesThroughUnwrapped(t *testing.T) {
	m := quietMediator()
	m.RegisterQuery("GetItem", func(ctx context.Context, msg Message) (any, error) {
		return Fail("NOT_FOUND"), nil
	})

	res := m.Ask(context.Background(), getItem{ID: 42})

	assert.False(t, res.OK())
	assert.Equal(t, "NOT_FOUND", res.Err())
	assert.Nil(t, res.Value())
}

func TestPlainValueWrappedInOk(t *testing.T) {
	m := quietMediator()
	m.RegisterCommand("CreateItem", func(ctx context.Context, msg Message) (any, error) {
		cmd := msg.(createItem)
		return len(cmd.Name), nil
	})

	res := m.Send(context.Background(), createItem{Name: "hello"})

	require.True(t, res.OK())
	assert.Equal(t, 5, res.Value())
	assert.Empty(t, res.Err())
}

func TestNilValueWrappedInOk(t *testing.T) {
	m := quietMediator()
	m.RegisterCommand("DeleteItem", func(ctx context.Context, msg Message) (any, error) {
		return nil, nil
	})

	res := m.Send(context.Background(), deleteItem{ID: 7})

	assert.True(t, res.OK())
	assert.Nil(t, res.Value())
}

func TestBehaviorOrdering(t *testing.T) {
	m := quietMediator()

	var trace []string
	observe := func(name string) Behavior {
		return func(ctx context.Context, msg Message, next Next) (any, error) {
			trace = append(trace, name+"-pre")
			out, err := next(ctx, msg)
			trace = append(trace, name+"-post")
			return out, err
		}
	}
	m.Use(observe("b1"))
	m.Use(observe("b2"))
	m.RegisterCommand("CreateItem", func(ctx context.Context, msg Message) (any, error) {
		trace = append(trace, "handler")
		return nil, nil
	})

	res := m.Send(context.Background(), createItem{Name: "x"})

	require.True(t, res.OK())
	assert.Equal(t, []string{"b1-pre", "b2-pre", "handler", "b2-post", "b1-post"}, trace)
}

func TestBehaviorShortCircuit(t *testing.T) {
	m := quietMediator()

	handlerCalled := false
	m.RegisterQuery("GetItem", func(ctx context.Context, msg Message) (any, error) {
		handlerCalled = true
		return "from-handler", nil
	})
	m.Use(func(ctx context.Context, msg Message, next Next) (any, error) {
		return "cached", nil
	})

	res := m.Ask(context.Background(), getItem{ID: 1})

	require.True(t, res.OK())
	assert.Equal(t, "cached", res.Value())
	assert.False(t, handlerCalled, "short-circuiting behavior must prevent the handler from running")
}

func TestBehaviorShortCircuitWithResult(t *testing.T) {
	m := quietMediator()
	m.RegisterCommand("CreateItem", func(ctx context.Context, msg Message) (any, error) {
		t.Fatal("handler must not run")
		return nil, nil
	})
	m.Use(func(ctx context.Context, msg Message, next Next) (any, error) {
		return Fail("rejected"), nil
	})

	res := m.Send(context.Background(), createItem{Name: "x"})

	assert.False(t, res.OK())
	assert.Equal(t, "rejected", res.Err())
}

func TestBehaviorMayTransformMessage(t *testing.T) {
	m := quietMediator()
	m.RegisterCommand("CreateItem", func(ctx context.Context, msg Message) (any, error) {
		return msg.(createItem).Name, nil
	})
	m.Use(func(ctx context.Context, msg Message, next Next) (any, error) {
		cmd := msg.(createItem)
		cmd.Name = "normalized"
		return next(ctx, cmd)
	})

	res := m.Send(context.Background(), createItem{Name: "RAW"})

	require.True(t, res.OK())
	assert.Equal(t, "normalized", res.Value())
}

func TestReRegistrationOverwrites(t *testing.T) {
	m := quietMediator()
	m.RegisterCommand("CreateItem", func(ctx context.Context, msg Message) (any, error) {
		return "first", nil
	})
	m.RegisterCommand("CreateItem", func(ctx context.Context, msg Message) (any, error) {
		return "second", nil
	})

	res := m.Send(context.Background(), createItem{Name: "x"})

	require.True(t, res.OK())
	assert.Equal(t, "second", res.Value())
}

func TestCommandAndQueryRegistriesAreDisjoint(t *testing.T) {
	m := quietMediator()
	m.RegisterCommand("GetItem", func(ctx context.Context, msg Message) (any, error) {
		return "command side", nil
	})

	// Only the command registry has a binding for this name.
	res := m.Ask(context.Background(), getItem{ID: 1})

	assert.False(t, res.OK())
	assert.Equal(t, "no handler registered for query GetItem", res.Err())
}

func TestAsyncSyncParity(t *testing.T) {
	m := quietMediator()
	m.RegisterCommand("CreateItem", func(ctx context.Context, msg Message) (any, error) {
		return len(msg.(createItem).Name), nil
	})
	m.RegisterQuery("GetItem", func(ctx context.Context, msg Message) (any, error) {
		return Fail("NOT_FOUND"), nil
	})

	ctx := context.Background()

	sync := m.Send(ctx, createItem{Name: "hello"})
	async := <-m.SendAsync(ctx, createItem{Name: "hello"})
	assert.Equal(t, sync, async)

	syncAsk := m.Ask(ctx, getItem{ID: 9})
	asyncAsk := <-m.AskAsync(ctx, getItem{ID: 9})
	assert.Equal(t, syncAsk, asyncAsk)
}

func TestAsyncUnregisteredDeliversFail(t *testing.T) {
	m := quietMediator()

	res, open := <-m.SendAsync(context.Background(), deleteItem{ID: 1})

	require.True(t, open)
	assert.False(t, res.OK())
	assert.Equal(t, "no handler registered for command DeleteItem", res.Err())

	_, open = <-m.SendAsync(context.Background(), deleteItem{ID: 1})
	require.True(t, open)
}

func TestAsyncChannelClosesAfterResult(t *testing.T) {
	m := quietMediator()
	m.RegisterQuery("GetItem", func(ctx context.Context, msg Message) (any, error) {
		return "item", nil
	})

	ch := m.AskAsync(context.Background(), getItem{ID: 1})

	res, open := <-ch
	require.True(t, open)
	assert.True(t, res.OK())

	_, open = <-ch
	assert.False(t, open, "channel must be closed after the single Result")
}

func TestDefaultLoggingBehavior(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	m := New(WithLogger(logger))
	m.RegisterCommand("CreateItem", func(ctx context.Context, msg Message) (any, error) {
		return nil, nil
	})

	res := m.Send(context.Background(), createItem{Name: "x"})

	require.True(t, res.OK())
	out := buf.String()
	assert.Contains(t, out, "handling message")
	assert.Contains(t, out, "handled message")
	assert.Contains(t, out, "CreateItem")
}

func TestMessageName(t *testing.T) {
	assert.Equal(t, "CreateItem", MessageName(createItem{}))
	assert.Equal(t, "GetItem", MessageName(getItem{}))
	assert.Equal(t, fmt.Sprintf("%T", 42), MessageName(42))
}
