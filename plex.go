// Package plex provides a priority event bus for Dragonfly servers.
//
// Plex is a plugin-facing layer on top of Dragonfly that provides:
//   - An explicit event type table, with interface parents sharing a handler list
//   - Priority-ordered, cancellable dispatch with handler failure isolation
//   - Yield, which lets a handler run the rest of the dispatch and the event
//     body before it finishes
//   - A bridge from player.Handler callbacks to bus events
//   - An async worker pool for events fired off the server tick
//
// Block geometry (vectors, rotations, transforms, cuboids, regions) lives in
// the geom subpackage.
//
// # Quick Start
//
// Build a bus in your server setup:
//
//	bundle := plex.NewBundle("MyGame").
//	    Events(plex.Declare[*BountyEvent]()).
//	    Listener(&SpawnGuard{Area: spawn})
//
//	bus := plex.NewBuilder().
//	    Events(plex.DeclarePlayerEvents()...).
//	    Bundle(bundle).
//	    Build()
//
//	for p := range srv.Accept() {
//	    plex.NewPlayerHandler(bus).Attach(p)
//	}
//
// # Events
//
// Events are plain structs that embed Base or CancellableBase. Every event type
// must be declared before handlers can be registered for it:
//
//	type BountyEvent struct {
//	    plex.CancellableBase
//	    Target *player.Player
//	    Reward int
//	}
//
// # Listeners
//
// Listeners declare their handlers in an explicit binding table:
//
//	type SpawnGuard struct{ Area geom.Region }
//
//	func (g *SpawnGuard) Bindings() []plex.Binding {
//	    return []plex.Binding{
//	        plex.Bind("break", plex.High, true, g.onBreak),
//	    }
//	}
//
//	func (g *SpawnGuard) onBreak(d *plex.Dispatch, e *plex.EventBlockBreak) error {
//	    if g.Area.Contains(e.Position) {
//	        e.SetCancelled(true)
//	    }
//	    return nil
//	}
//
// # Priorities
//
//	Lowest   First say
//	Low
//	Normal   Default
//	High
//	Highest  Last say
//	Monitor  Observe only
//
// # Yield
//
// A handler that needs to see the outcome calls Yield, which runs every later
// handler and the body first:
//
//	func (l *Audit) onBounty(d *plex.Dispatch, e *BountyEvent) error {
//	    err := d.Yield()
//	    l.log.Info("bounty", "cancelled", e.Cancelled(), "err", err)
//	    return nil
//	}
package plex

// Version is the plex version.
const Version = "0.1.0"
