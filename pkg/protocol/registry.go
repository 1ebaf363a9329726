package protocol

import (
	"fmt"
	"reflect"
	"sync"
)

type entry struct {
	name  string
	new   func() Message
	track func(Message) (Tracker, bool)
}

func newEntry[T any, P interface {
	*T
	Message
}]() entry {
	return entry{
		name: reflect.TypeFor[T]().Name(),
		new:  func() Message { return P(new(T)) },
		track: func(m Message) (Tracker, bool) {
			p, ok := m.(P)
			if !ok || p == nil {
				return nil, false
			}
			return Track[T, P](*p), true
		},
	}
}

// Registry maps message ids and net module ids to message types.
// Populate it before use; after that it is read-only and safe to share.
type Registry struct {
	messages map[MessageID]entry
	modules  map[ModuleID]entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		messages: make(map[MessageID]entry),
		modules:  make(map[ModuleID]entry),
	}
}

// Register adds message type T, keyed by the id its zero value reports.
func Register[T any, P interface {
	*T
	Message
}](r *Registry) {
	id := P(new(T)).ID()
	if id == IDNetModule {
		panic("protocol: net module types must use RegisterModule")
	}
	if _, dup := r.messages[id]; dup {
		panic(fmt.Sprintf("protocol: message id %d registered twice", id))
	}
	r.messages[id] = newEntry[T, P]()
}

// RegisterModule adds net module type T, keyed by the module its zero value reports.
func RegisterModule[T any, P interface {
	*T
	ModuleMessage
}](r *Registry) {
	mod := P(new(T)).Module()
	if _, dup := r.modules[mod]; dup {
		panic(fmt.Sprintf("protocol: module id %d registered twice", mod))
	}
	r.modules[mod] = newEntry[T, P]()
}

func (r *Registry) lookup(id MessageID, mod ModuleID) (entry, bool) {
	if id == IDNetModule {
		e, ok := r.modules[mod]
		return e, ok
	}
	e, ok := r.messages[id]
	return e, ok
}

// New returns a zero value of the type registered for id (and module).
func (r *Registry) New(id MessageID, mod ModuleID) (Message, bool) {
	e, ok := r.lookup(id, mod)
	if !ok {
		return nil, false
	}
	return e.new(), true
}

// Name returns the type name registered for id (and module).
func (r *Registry) Name(id MessageID, mod ModuleID) string {
	if e, ok := r.lookup(id, mod); ok {
		return e.name
	}
	if id == IDNetModule {
		return fmt.Sprintf("Module(%d)", mod)
	}
	return fmt.Sprintf("Message(%d)", id)
}

// Track wraps m in a mutation tracker. m must be a pointer to a registered
// type or a *Raw; the tracker holds its own copy of the value.
func (r *Registry) Track(m Message) (Tracker, error) {
	if raw, ok := m.(*Raw); ok {
		return Track[Raw](*raw), nil
	}
	var mod ModuleID
	if mm, ok := m.(ModuleMessage); ok {
		mod = mm.Module()
	}
	e, ok := r.lookup(m.ID(), mod)
	if !ok {
		return nil, fmt.Errorf("protocol: no type registered for %T", m)
	}
	t, ok := e.track(m)
	if !ok {
		return nil, fmt.Errorf("protocol: %T does not match registered type %s", m, e.name)
	}
	return t, nil
}

// DefaultRegistry returns the registry holding every message type in this package.
var DefaultRegistry = sync.OnceValue(func() *Registry {
	r := NewRegistry()
	Register[ConnectRequest](r)
	Register[Disconnect](r)
	Register[PlayerSlot](r)
	Register[TileModify](r)
	Register[ItemOwner](r)
	Register[ProjectileUpdate](r)
	Register[PlayerBuffs](r)
	Register[ChestName](r)
	Register[SmartText](r)
	Register[PlayerHurt](r)
	Register[PlayerDeath](r)
	RegisterModule[TextModule](r)
	RegisterModule[PingModule](r)
	return r
})
