package relay

import (
	"context"

	"github.com/tnetkit/tnet/pkg/hook"
	"github.com/tnetkit/tnet/pkg/protocol"
)

// BlockReason is the cancel reason used by Block.
const BlockReason = "blocked"

// Block registers a first-priority handler that cancels every message with
// one of the given ids. It returns a function that removes the handlers.
func Block(hooks *hook.Registry, ids ...protocol.MessageID) func() {
	h := hook.HandlerFunc(func(_ context.Context, ev *hook.Event) error {
		ev.Cancel(BlockReason)
		return nil
	})

	offs := make([]func(), 0, len(ids))
	for _, id := range ids {
		offs = append(offs, hooks.On(id, hook.PriorityFirst, h))
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}
