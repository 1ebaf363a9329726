package hook

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnetkit/tnet/pkg/protocol"
)

func newEvent(t *testing.T, m protocol.Message, dir protocol.Direction) *Event {
	t.Helper()

	frame, err := protocol.Encode(m, dir)
	require.NoError(t, err)

	reg := protocol.DefaultRegistry()
	pkt, _, err := reg.Decode(frame, dir)
	require.NoError(t, err)

	in, err := reg.TrackPacket(pkt, dir, frame)
	require.NoError(t, err)
	return &Event{ConnID: 1, Direction: dir, Packet: in}
}

func record(order *[]string, name string) Handler {
	return HandlerFunc(func(context.Context, *Event) error {
		*order = append(*order, name)
		return nil
	})
}

func TestDispatchOrder(t *testing.T) {
	r := New()
	var order []string

	r.On(protocol.IDItemOwner, PriorityLast, record(&order, "last"))
	r.On(protocol.IDItemOwner, PriorityNormal, record(&order, "normal-1"))
	r.OnAny(PriorityNormal, record(&order, "any-normal"))
	r.On(protocol.IDItemOwner, PriorityNormal, record(&order, "normal-2"))
	r.OnAny(PriorityFirst, record(&order, "any-first"))
	r.On(protocol.IDChestName, PriorityFirst, record(&order, "other-id"))

	ev := newEvent(t, &protocol.ItemOwner{ItemIndex: 1, OwnerIndex: 2}, protocol.ToClient)
	require.NoError(t, r.Dispatch(context.Background(), ev))

	assert.Equal(t, []string{"any-first", "normal-1", "any-normal", "normal-2", "last"}, order)
	assert.Equal(t, 6, r.Len())
}

func TestDispatchModule(t *testing.T) {
	r := New()
	var order []string

	r.OnModule(protocol.ModuleText, PriorityNormal, record(&order, "text"))
	r.OnModule(protocol.ModulePing, PriorityNormal, record(&order, "ping"))
	r.On(protocol.IDNetModule, PriorityNormal, record(&order, "bare-82"))

	cmd := protocol.NewChatCommand("Say", "hi")
	ev := newEvent(t, &cmd, protocol.ToServer)
	require.NoError(t, r.Dispatch(context.Background(), ev))

	assert.Equal(t, []string{"text"}, order)
}

func TestDispatchMutationMakesDirty(t *testing.T) {
	r := New()
	r.On(protocol.IDChestName, PriorityNormal, HandlerFunc(func(_ context.Context, ev *Event) error {
		ev.Message().(*protocol.ChestName).Name = "renamed"
		return nil
	}))

	ev := newEvent(t, &protocol.ChestName{Chest: 1, Name: "Loot"}, protocol.ToClient)
	require.False(t, ev.Packet.IsDirty())
	require.NoError(t, r.Dispatch(context.Background(), ev))
	assert.True(t, ev.Packet.IsDirty())

	out, err := ev.Packet.Forward()
	require.NoError(t, err)
	pkt, _, err := protocol.Decode(out, protocol.ToClient)
	require.NoError(t, err)
	assert.Equal(t, "renamed", pkt.Message.(*protocol.ChestName).Name)
}

func TestDispatchStopsOnError(t *testing.T) {
	r := New()
	var order []string
	boom := errors.New("boom")

	r.On(protocol.IDItemOwner, PriorityFirst, HandlerFunc(func(context.Context, *Event) error {
		return boom
	}))
	r.On(protocol.IDItemOwner, PriorityNormal, record(&order, "never"))

	ev := newEvent(t, &protocol.ItemOwner{}, protocol.ToClient)
	err := r.Dispatch(context.Background(), ev)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, order)
}

func TestDispatchStopOnCancel(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want []string
	}{
		{"default_runs_all", nil, []string{"cancel", "monitor"}},
		{"stop_on_cancel", []Option{WithStopOnCancel()}, []string{"cancel"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := New(tc.opts...)
			var order []string
			r.On(protocol.IDItemOwner, PriorityNormal, HandlerFunc(func(_ context.Context, ev *Event) error {
				order = append(order, "cancel")
				ev.Cancel("blocked")
				return nil
			}))
			r.OnAny(PriorityMonitor, record(&order, "monitor"))

			ev := newEvent(t, &protocol.ItemOwner{}, protocol.ToClient)
			require.NoError(t, r.Dispatch(context.Background(), ev))
			assert.Equal(t, tc.want, order)

			reason, canceled := ev.Packet.Canceled()
			assert.True(t, canceled)
			assert.Equal(t, "blocked", reason)
		})
	}
}

func TestDispatchRecover(t *testing.T) {
	r := New(WithRecover())
	r.OnAny(PriorityNormal, HandlerFunc(func(context.Context, *Event) error {
		panic("handler exploded")
	}))

	ev := newEvent(t, &protocol.PlayerSlot{PlayerIndex: 1}, protocol.ToClient)
	err := r.Dispatch(context.Background(), ev)

	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "handler exploded", pe.Value)
	assert.NotEmpty(t, pe.Stack)
}

func TestDispatchContextCanceled(t *testing.T) {
	r := New()
	var order []string
	r.OnAny(PriorityNormal, record(&order, "never"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ev := newEvent(t, &protocol.PlayerSlot{}, protocol.ToClient)
	assert.ErrorIs(t, r.Dispatch(ctx, ev), context.Canceled)
	assert.Empty(t, order)
}

func TestUnregister(t *testing.T) {
	r := New()
	var order []string

	off := r.On(protocol.IDItemOwner, PriorityNormal, record(&order, "removed"))
	r.On(protocol.IDItemOwner, PriorityNormal, record(&order, "kept"))
	off()
	off()

	ev := newEvent(t, &protocol.ItemOwner{}, protocol.ToClient)
	require.NoError(t, r.Dispatch(context.Background(), ev))
	assert.Equal(t, []string{"kept"}, order)
	assert.Equal(t, 1, r.Len())
}
