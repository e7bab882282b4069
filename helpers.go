package plex

import (
	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/player"
)

// BusOf returns the bus of the PlayerHandler installed on p, or nil if p has none.
func BusOf(p *player.Player) *Bus {
	h, ok := p.Handler().(*PlayerHandler)
	if !ok {
		return nil
	}
	return h.bus
}

// Command extracts the player and its bus from a command source.
// Returns (nil, nil) if the source is not a player or has no PlayerHandler.
//
// Usage:
//
//	func (c MyCommand) Run(src cmd.Source, out *cmd.Output, tx *world.Tx) {
//	    p, bus := plex.Command(src)
//	    if p == nil || bus == nil {
//	        out.Error("Player-only command")
//	        return
//	    }
//	    _ = bus.CallEvent(plex.WithPrimary(context.Background()), &MyEvent{Player: p})
//	}
func Command(src cmd.Source) (*player.Player, *Bus) {
	p, ok := src.(*player.Player)
	if !ok {
		return nil, nil
	}
	return p, BusOf(p)
}
