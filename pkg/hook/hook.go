package hook

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"sync"

	"github.com/tnetkit/tnet/pkg/protocol"
)

// Priority orders handlers. Lower values run first.
type Priority int

const (
	PriorityFirst   Priority = -1000
	PriorityNormal  Priority = 0
	PriorityLast    Priority = 1000
	PriorityMonitor Priority = 2000 // observers that should see the final value
)

// Event is what a handler receives for one in-flight message.
type Event struct {
	ConnID    uint64
	Direction protocol.Direction
	Packet    *protocol.InFlight
}

// Message returns the live message. Handlers mutate it in place.
func (e *Event) Message() protocol.Message {
	return e.Packet.Message()
}

// Cancel marks the packet so it is not forwarded.
func (e *Event) Cancel(reason string) {
	e.Packet.Cancel(reason)
}

// Handler handles an in-flight message.
type Handler interface {
	Handle(ctx context.Context, ev *Event) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, ev *Event) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, ev *Event) error {
	return f(ctx, ev)
}

// PanicError is returned by Dispatch when a handler panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("hook: handler panic: %v", e.Value)
}

type key struct {
	id       protocol.MessageID
	module   protocol.ModuleID
	wildcard bool
}

type registration struct {
	key      key
	priority Priority
	seq      uint64
	handler  Handler
}

// Registry holds handlers and dispatches events to them.
type Registry struct {
	mu       sync.RWMutex
	handlers map[key][]registration
	seq      uint64

	stopOnCancel  bool
	recoverPanics bool
	logger        *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithStopOnCancel skips the remaining handlers once one cancels the packet.
func WithStopOnCancel() Option {
	return func(r *Registry) {
		r.stopOnCancel = true
	}
}

// WithRecover turns handler panics into *PanicError.
func WithRecover() Option {
	return func(r *Registry) {
		r.recoverPanics = true
	}
}

// WithLogger sets the logger used for handler failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		handlers: make(map[key][]registration),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// On registers h for messages with the given id. It returns a function
// that removes the registration.
func (r *Registry) On(id protocol.MessageID, p Priority, h Handler) func() {
	return r.add(key{id: id}, p, h)
}

// OnModule registers h for net module messages of the given module.
func (r *Registry) OnModule(mod protocol.ModuleID, p Priority, h Handler) func() {
	return r.add(key{id: protocol.IDNetModule, module: mod}, p, h)
}

// OnAny registers h for every message.
func (r *Registry) OnAny(p Priority, h Handler) func() {
	return r.add(key{wildcard: true}, p, h)
}

func (r *Registry) add(k key, p Priority, h Handler) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	reg := registration{key: k, priority: p, seq: r.seq, handler: h}
	old := r.handlers[k]
	list := make([]registration, 0, len(old)+1)
	list = append(append(list, old...), reg)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].priority < list[j].priority
	})
	r.handlers[k] = list

	seq := reg.seq
	return func() { r.remove(k, seq) }
}

func (r *Registry) remove(k key, seq uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.handlers[k]
	for i, reg := range list {
		if reg.seq == seq {
			r.handlers[k] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, list := range r.handlers {
		n += len(list)
	}
	return n
}

// handlersFor merges the handlers for k with the wildcard handlers, ordered
// by priority and then registration order.
func (r *Registry) handlersFor(k key) []registration {
	r.mu.RLock()
	specific := r.handlers[k]
	wildcard := r.handlers[key{wildcard: true}]
	r.mu.RUnlock()

	out := make([]registration, 0, len(specific)+len(wildcard))
	i, j := 0, 0
	for i < len(specific) && j < len(wildcard) {
		a, b := specific[i], wildcard[j]
		if a.priority < b.priority || (a.priority == b.priority && a.seq < b.seq) {
			out = append(out, a)
			i++
		} else {
			out = append(out, b)
			j++
		}
	}
	out = append(out, specific[i:]...)
	return append(out, wildcard[j:]...)
}

// Dispatch runs the handlers for ev in order. It stops at the first handler
// error and returns it.
func (r *Registry) Dispatch(ctx context.Context, ev *Event) error {
	h := ev.Packet.Header
	k := key{id: h.ID}
	if h.ID == protocol.IDNetModule {
		k.module = h.Module
	}

	for _, reg := range r.handlersFor(k) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.call(ctx, reg.handler, ev); err != nil {
			r.logger.Debug("hook handler failed",
				"id", h.ID,
				"module", h.Module,
				"priority", reg.priority,
				"error", err)
			return err
		}
		if r.stopOnCancel {
			if _, canceled := ev.Packet.Canceled(); canceled {
				return nil
			}
		}
	}
	return nil
}

func (r *Registry) call(ctx context.Context, h Handler, ev *Event) (err error) {
	if r.recoverPanics {
		defer func() {
			if p := recover(); p != nil {
				err = &PanicError{Value: p, Stack: debug.Stack()}
			}
		}()
	}
	return h.Handle(ctx, ev)
}
