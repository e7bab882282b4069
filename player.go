package plex

import (
	"context"
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/plex/geom"
)

// PlayerHandler implements player.Handler by firing the matching player events
// on a Bus. Callbacks it does not bridge fall through to player.NopHandler.
//
// Concurrency:
// Dragonfly calls player handlers synchronously from the world's transaction,
// so every event is dispatched as a sync event from a primary context.
// Handlers must not keep references to event values after they return; some of
// them are pooled.
type PlayerHandler struct {
	player.NopHandler

	bus *Bus
	ctx context.Context
}

// Compile-time check that PlayerHandler implements player.Handler.
var _ player.Handler = (*PlayerHandler)(nil)

// NewPlayerHandler creates a handler that fires player events on bus.
func NewPlayerHandler(bus *Bus) *PlayerHandler {
	return &PlayerHandler{
		bus: bus,
		ctx: WithPrimary(context.Background()),
	}
}

// Bus returns the bus the handler fires events on.
func (h *PlayerHandler) Bus() *Bus {
	return h.bus
}

// Attach installs the handler on p and fires EventJoin.
//
// Usage:
//
//	for p := range srv.Accept() {
//	    plex.NewPlayerHandler(bus).Attach(p)
//	}
func (h *PlayerHandler) Attach(p *player.Player) {
	p.Handle(h)
	h.fire(&EventJoin{Player: p})
}

// fire dispatches e and logs dispatch errors. Handler failures are reported by
// the bus itself.
func (h *PlayerHandler) fire(e Event) {
	if err := h.bus.CallEvent(h.ctx, e); err != nil {
		h.bus.log.Error("plex: player event dispatch failed", "event", EventName(e), "err", err)
	}
}

// fireCancellable dispatches e with the cancel state of ctx and writes the
// outcome back to ctx.
func (h *PlayerHandler) fireCancellable(ctx *player.Context, e Cancellable) {
	e.SetCancelled(ctx.Cancelled())
	h.fire(e)
	if e.Cancelled() {
		ctx.Cancel()
	}
}

// HandleMove handles the player moving.
func (h *PlayerHandler) HandleMove(ctx *player.Context, newPos mgl64.Vec3, newRot cube.Rotation) {
	e := eventMovePool.Get().(*EventMove)
	*e = EventMove{Ctx: ctx, Player: ctx.Val(), Position: geom.VecOf(newPos), Rotation: newRot}
	h.fireCancellable(ctx, e)
	*e = EventMove{}
	eventMovePool.Put(e)
}

// HandleJump handles the player jumping.
func (h *PlayerHandler) HandleJump(p *player.Player) {
	h.fire(&EventJump{Player: p})
}

// HandleTeleport handles the player being teleported.
func (h *PlayerHandler) HandleTeleport(ctx *player.Context, pos mgl64.Vec3) {
	h.fireCancellable(ctx, &EventTeleport{Ctx: ctx, Player: ctx.Val(), Position: geom.VecOf(pos)})
}

// HandleToggleSprint handles the player toggling sprint.
func (h *PlayerHandler) HandleToggleSprint(ctx *player.Context, after bool) {
	h.fireCancellable(ctx, &EventToggleSprint{Ctx: ctx, Player: ctx.Val(), After: after})
}

// HandleToggleSneak handles the player toggling sneak.
func (h *PlayerHandler) HandleToggleSneak(ctx *player.Context, after bool) {
	h.fireCancellable(ctx, &EventToggleSneak{Ctx: ctx, Player: ctx.Val(), After: after})
}

// HandleChat handles the player sending a chat message.
func (h *PlayerHandler) HandleChat(ctx *player.Context, message *string) {
	h.fireCancellable(ctx, &EventChat{Ctx: ctx, Player: ctx.Val(), Message: message})
}

// HandleFoodLoss handles the player losing food.
func (h *PlayerHandler) HandleFoodLoss(ctx *player.Context, from int, to *int) {
	h.fireCancellable(ctx, &EventFoodLoss{Ctx: ctx, Player: ctx.Val(), From: from, To: to})
}

// HandleHeal handles the player being healed.
func (h *PlayerHandler) HandleHeal(ctx *player.Context, health *float64, src world.HealingSource) {
	h.fireCancellable(ctx, &EventHeal{Ctx: ctx, Player: ctx.Val(), Health: health, Source: src})
}

// HandleHurt handles the player being hurt.
func (h *PlayerHandler) HandleHurt(ctx *player.Context, damage *float64, immune bool, attackImmunity *time.Duration, src world.DamageSource) {
	h.fireCancellable(ctx, &EventHurt{
		Ctx:      ctx,
		Player:   ctx.Val(),
		Damage:   damage,
		Immune:   immune,
		Immunity: attackImmunity,
		Source:   src,
	})
}

// HandleDeath handles the player dying.
func (h *PlayerHandler) HandleDeath(p *player.Player, src world.DamageSource, keepInv *bool) {
	h.fire(&EventDeath{Player: p, Source: src, KeepInventory: keepInv})
}

// HandleRespawn handles the player respawning.
func (h *PlayerHandler) HandleRespawn(p *player.Player, pos *mgl64.Vec3, w **world.World) {
	h.fire(&EventRespawn{Player: p, Position: pos, World: w})
}

// HandleStartBreak handles the player starting to break a block.
func (h *PlayerHandler) HandleStartBreak(ctx *player.Context, pos cube.Pos) {
	h.fireCancellable(ctx, &EventStartBreak{Ctx: ctx, Player: ctx.Val(), Position: geom.PosOf(pos)})
}

// HandleBlockBreak handles block breaking.
func (h *PlayerHandler) HandleBlockBreak(ctx *player.Context, pos cube.Pos, drops *[]item.Stack, xp *int) {
	h.fireCancellable(ctx, &EventBlockBreak{
		Ctx:        ctx,
		Player:     ctx.Val(),
		Position:   geom.PosOf(pos),
		Drops:      drops,
		Experience: xp,
	})
}

// HandleBlockPlace handles block placement.
func (h *PlayerHandler) HandleBlockPlace(ctx *player.Context, pos cube.Pos, b world.Block) {
	h.fireCancellable(ctx, &EventBlockPlace{Ctx: ctx, Player: ctx.Val(), Position: geom.PosOf(pos), Block: b})
}

// HandleBlockPick handles picking a block.
func (h *PlayerHandler) HandleBlockPick(ctx *player.Context, pos cube.Pos, b world.Block) {
	h.fireCancellable(ctx, &EventBlockPick{Ctx: ctx, Player: ctx.Val(), Position: geom.PosOf(pos), Block: b})
}

// HandleItemUse handles general item use.
func (h *PlayerHandler) HandleItemUse(ctx *player.Context) {
	h.fireCancellable(ctx, &EventItemUse{Ctx: ctx, Player: ctx.Val()})
}

// HandleItemUseOnBlock handles using an item on a block.
func (h *PlayerHandler) HandleItemUseOnBlock(ctx *player.Context, pos cube.Pos, face cube.Face, clickPos mgl64.Vec3) {
	h.fireCancellable(ctx, &EventItemUseOnBlock{
		Ctx:      ctx,
		Player:   ctx.Val(),
		Position: geom.PosOf(pos),
		Face:     face,
		ClickPos: geom.VecOf(clickPos),
	})
}

// HandleItemUseOnEntity handles using an item on an entity.
func (h *PlayerHandler) HandleItemUseOnEntity(ctx *player.Context, e world.Entity) {
	h.fireCancellable(ctx, &EventItemUseOnEntity{Ctx: ctx, Player: ctx.Val(), Entity: e})
}

// HandleAttackEntity handles attacking an entity.
func (h *PlayerHandler) HandleAttackEntity(ctx *player.Context, e world.Entity, force, height *float64, critical *bool) {
	h.fireCancellable(ctx, &EventAttackEntity{
		Ctx:      ctx,
		Player:   ctx.Val(),
		Entity:   e,
		Force:    force,
		Height:   height,
		Critical: critical,
	})
}

// HandleItemDrop handles dropping an item.
func (h *PlayerHandler) HandleItemDrop(ctx *player.Context, it item.Stack) {
	h.fireCancellable(ctx, &EventItemDrop{Ctx: ctx, Player: ctx.Val(), Item: it})
}

// HandleCommandExecution handles executing a command.
func (h *PlayerHandler) HandleCommandExecution(ctx *player.Context, command cmd.Command, args []string) {
	h.fireCancellable(ctx, &EventCommandExecution{Ctx: ctx, Player: ctx.Val(), Command: command, Args: args})
}

// HandleQuit handles a player quitting the server.
func (h *PlayerHandler) HandleQuit(p *player.Player) {
	h.fire(&EventQuit{Player: p})
}
