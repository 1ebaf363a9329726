// Package hook dispatches decoded in-flight messages to handlers in
// priority order.
//
// Handlers are registered per message id, per net module, or for every
// message:
//
//	hooks := hook.New(hook.WithStopOnCancel())
//	hooks.On(protocol.IDChestName, hook.PriorityNormal, hook.HandlerFunc(
//	    func(ctx context.Context, ev *hook.Event) error {
//	        m := ev.Message().(*protocol.ChestName)
//	        m.Name = strings.TrimSpace(m.Name)
//	        return nil
//	    }))
//
// Lower priorities run first; handlers with equal priority run in
// registration order. A handler edits the live message through
// ev.Message(), and the caller decides after Dispatch whether the packet is
// re-encoded, forwarded unchanged or dropped.
package hook
