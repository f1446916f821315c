package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	handler string
	ctx     any
	amount  int
}

type recorder struct {
	calls []call
}

func (r *recorder) handler(name string) Handler {
	return func(ctx any, amount int) {
		r.calls = append(r.calls, call{handler: name, ctx: ctx, amount: amount})
	}
}

func TestNotifyBeforeRegisterIsNoop(t *testing.T) {
	b := New()

	for _, n := range []int{0, 1, -1, 100, -2147483648, 2147483647} {
		b.Notify(n)
	}

	assert.False(t, b.Registered())
	assert.Equal(t, Registration{}, b.Current())
}

func TestNotifyDeliversContextAndAmount(t *testing.T) {
	rec := &recorder{}
	token := &struct{ name string }{"host"}
	b := New()

	b.Register(token, rec.handler("h"))
	b.Notify(42)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, "h", rec.calls[0].handler)
	assert.Same(t, token, rec.calls[0].ctx)
	assert.Equal(t, 42, rec.calls[0].amount)
}

func TestNotifyForwardsAmountUnvalidated(t *testing.T) {
	rec := &recorder{}
	b := New()
	b.Register(nil, rec.handler("h"))

	b.Notify(-7)
	b.Notify(0)
	b.Notify(1 << 40)

	require.Len(t, rec.calls, 3)
	assert.Equal(t, -7, rec.calls[0].amount)
	assert.Equal(t, 0, rec.calls[1].amount)
	assert.Equal(t, 1<<40, rec.calls[2].amount)
}

func TestRegisterOverwritesPrevious(t *testing.T) {
	rec := &recorder{}
	b := New()

	b.Register("c1", rec.handler("h1"))
	b.Register("c2", rec.handler("h2"))
	b.Notify(5)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, call{handler: "h2", ctx: "c2", amount: 5}, rec.calls[0])
}

func TestRegisterSamePairTwice(t *testing.T) {
	rec := &recorder{}
	h := rec.handler("h")
	b := New()

	b.Register("c", h)
	b.Register("c", h)
	b.Notify(3)
	b.Notify(4)

	require.Len(t, rec.calls, 2)
	assert.Equal(t, call{handler: "h", ctx: "c", amount: 3}, rec.calls[0])
	assert.Equal(t, call{handler: "h", ctx: "c", amount: 4}, rec.calls[1])
}

func TestRegisterNilHandlerDetaches(t *testing.T) {
	rec := &recorder{}
	b := New()

	b.Register("c", rec.handler("h"))
	b.Notify(1)
	b.Register(nil, nil)
	b.Notify(2)

	require.Len(t, rec.calls, 1)
	assert.False(t, b.Registered())
}

func TestRegisterContextWithoutHandlerIsNoop(t *testing.T) {
	b := New()
	b.Register("ctx-only", nil)

	assert.NotPanics(t, func() { b.Notify(9) })
	assert.False(t, b.Registered())
	assert.Equal(t, "ctx-only", b.Current().Context)
}

func TestNilBridgeIsNoopNotifier(t *testing.T) {
	var b *Bridge
	var n Notifier = b

	assert.NotPanics(t, func() {
		n.Notify(10)
		b.Register("c", func(any, int) {})
	})
	assert.False(t, b.Registered())
}

func TestZeroValueBridgeIsUsable(t *testing.T) {
	var b Bridge
	got := 0
	b.RegisterFunc(func(amount int) { got = amount })

	b.Notify(12)

	assert.Equal(t, 12, got)
}

func TestRegisterFunc(t *testing.T) {
	var got []int
	b := New()

	b.RegisterFunc(func(amount int) { got = append(got, amount) })
	b.Notify(1)
	b.Notify(2)
	b.RegisterFunc(nil)
	b.Notify(3)

	assert.Equal(t, []int{1, 2}, got)
	assert.False(t, b.Registered())
}

func TestNotifyRunsOnCallerGoroutine(t *testing.T) {
	b := New()
	returned := false
	b.RegisterFunc(func(int) {
		// Notify has not returned while the handler runs.
		assert.False(t, returned)
	})

	b.Notify(1)
	returned = true
}

func TestDefaultBridge(t *testing.T) {
	t.Cleanup(func() { Register(nil, nil) })

	rec := &recorder{}
	Register("global", rec.handler("g"))
	Notify(8)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, call{handler: "g", ctx: "global", amount: 8}, rec.calls[0])
	assert.True(t, Default().Registered())
}
