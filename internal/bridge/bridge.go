package bridge

import "sync/atomic"

// Handler receives a damage notification.
// ctx is the token that was passed to Register alongside the handler.
type Handler func(ctx any, amount int)

// Registration is the (context, handler) pair held by a Bridge.
// The zero value is the unregistered state.
type Registration struct {
	Context any
	Handler Handler
}

// Notifier is the only surface the engine needs from the bridge.
type Notifier interface {
	Notify(amount int)
}

// Bridge owns a single registration slot.
//
// The zero value is ready to use and starts Unregistered. A nil *Bridge is
// also a valid Notifier whose Notify does nothing, so engine call sites never
// have to check whether a host is attached.
type Bridge struct {
	slot atomic.Pointer[Registration]
}

// New creates an unregistered bridge.
func New() *Bridge {
	return &Bridge{}
}

// Register stores (ctx, h) as the current registration, replacing any
// previous one. Both arguments may be nil.
func (b *Bridge) Register(ctx any, h Handler) {
	if b == nil {
		return
	}
	b.slot.Store(&Registration{Context: ctx, Handler: h})
}

// RegisterFunc registers a closure as the handler. The closure captures
// whatever state it needs, so no context token is stored. Passing nil
// detaches the current handler.
func (b *Bridge) RegisterFunc(fn func(amount int)) {
	if fn == nil {
		b.Register(nil, nil)
		return
	}
	b.Register(nil, func(_ any, amount int) { fn(amount) })
}

// Notify forwards amount to the registered handler, if any.
// The handler runs on the calling goroutine and Notify returns when it does.
func (b *Bridge) Notify(amount int) {
	if b == nil {
		return
	}
	reg := b.slot.Load()
	if reg == nil || reg.Handler == nil {
		return
	}
	reg.Handler(reg.Context, amount)
}

// Registered reports whether a non-nil handler is currently installed.
func (b *Bridge) Registered() bool {
	if b == nil {
		return false
	}
	reg := b.slot.Load()
	return reg != nil && reg.Handler != nil
}

// Current returns a copy of the current registration.
// The zero Registration is returned when nothing has been registered.
func (b *Bridge) Current() Registration {
	if b == nil {
		return Registration{}
	}
	if reg := b.slot.Load(); reg != nil {
		return *reg
	}
	return Registration{}
}

var defaultBridge = New()

// Default returns the process-wide bridge.
func Default() *Bridge {
	return defaultBridge
}

// Register installs (ctx, h) on the process-wide bridge.
func Register(ctx any, h Handler) {
	defaultBridge.Register(ctx, h)
}

// Notify forwards amount through the process-wide bridge.
func Notify(amount int) {
	defaultBridge.Notify(amount)
}
