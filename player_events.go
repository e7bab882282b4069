package plex

import (
	"sync"
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/plex/geom"
)

// Player events wrap Dragonfly handler parameters.
// Cancelling one of them cancels the underlying *player.Context after dispatch.
// Pointer fields may be modified by handlers to change the outcome.

// EventMove is emitted when a player moves.
type EventMove struct {
	CancellableBase
	Ctx      *player.Context
	Player   *player.Player
	Position geom.Vec
	Rotation cube.Rotation
}

// EventJump is emitted when a player jumps.
type EventJump struct {
	Base
	Player *player.Player
}

// EventTeleport is emitted when a player is teleported.
type EventTeleport struct {
	CancellableBase
	Ctx      *player.Context
	Player   *player.Player
	Position geom.Vec
}

// EventToggleSprint is emitted when a player toggles sprinting.
type EventToggleSprint struct {
	CancellableBase
	Ctx    *player.Context
	Player *player.Player
	After  bool
}

// EventToggleSneak is emitted when a player toggles sneaking.
type EventToggleSneak struct {
	CancellableBase
	Ctx    *player.Context
	Player *player.Player
	After  bool
}

// EventChat is emitted when a player sends a chat message.
type EventChat struct {
	CancellableBase
	Ctx     *player.Context
	Player  *player.Player
	Message *string
}

// EventFoodLoss is emitted when a player loses food.
type EventFoodLoss struct {
	CancellableBase
	Ctx    *player.Context
	Player *player.Player
	From   int
	To     *int
}

// EventHeal is emitted when a player is healed.
type EventHeal struct {
	CancellableBase
	Ctx    *player.Context
	Player *player.Player
	Health *float64
	Source world.HealingSource
}

// EventHurt is emitted when a player is hurt.
type EventHurt struct {
	CancellableBase
	Ctx      *player.Context
	Player   *player.Player
	Damage   *float64
	Immune   bool
	Immunity *time.Duration
	Source   world.DamageSource
}

// EventDeath is emitted when a player dies.
type EventDeath struct {
	Base
	Player        *player.Player
	Source        world.DamageSource
	KeepInventory *bool
}

// EventRespawn is emitted when a player respawns.
type EventRespawn struct {
	Base
	Player   *player.Player
	Position *mgl64.Vec3
	World    **world.World
}

// EventStartBreak is emitted when a player starts breaking a block.
type EventStartBreak struct {
	CancellableBase
	Ctx      *player.Context
	Player   *player.Player
	Position geom.Pos
}

// EventBlockBreak is emitted when a player breaks a block.
type EventBlockBreak struct {
	CancellableBase
	Ctx        *player.Context
	Player     *player.Player
	Position   geom.Pos
	Drops      *[]item.Stack
	Experience *int
}

// EventBlockPlace is emitted when a player places a block.
type EventBlockPlace struct {
	CancellableBase
	Ctx      *player.Context
	Player   *player.Player
	Position geom.Pos
	Block    world.Block
}

// EventBlockPick is emitted when a player picks a block.
type EventBlockPick struct {
	CancellableBase
	Ctx      *player.Context
	Player   *player.Player
	Position geom.Pos
	Block    world.Block
}

// ItemUseEvent is the parent of every item use event. A handler registered for
// ItemUseEvent receives EventItemUse, EventItemUseOnBlock and EventItemUseOnEntity.
type ItemUseEvent interface {
	Cancellable
	User() *player.Player
}

// EventItemUse is emitted when a player uses an item.
type EventItemUse struct {
	CancellableBase
	Ctx    *player.Context
	Player *player.Player
}

// User implements ItemUseEvent.
func (e *EventItemUse) User() *player.Player { return e.Player }

// EventItemUseOnBlock is emitted when a player uses an item on a block.
type EventItemUseOnBlock struct {
	CancellableBase
	Ctx      *player.Context
	Player   *player.Player
	Position geom.Pos
	Face     cube.Face
	ClickPos geom.Vec
}

// User implements ItemUseEvent.
func (e *EventItemUseOnBlock) User() *player.Player { return e.Player }

// EventItemUseOnEntity is emitted when a player uses an item on an entity.
type EventItemUseOnEntity struct {
	CancellableBase
	Ctx    *player.Context
	Player *player.Player
	Entity world.Entity
}

// User implements ItemUseEvent.
func (e *EventItemUseOnEntity) User() *player.Player { return e.Player }

// EventAttackEntity is emitted when a player attacks an entity.
type EventAttackEntity struct {
	CancellableBase
	Ctx      *player.Context
	Player   *player.Player
	Entity   world.Entity
	Force    *float64
	Height   *float64
	Critical *bool
}

// EventItemDrop is emitted when a player drops an item.
type EventItemDrop struct {
	CancellableBase
	Ctx    *player.Context
	Player *player.Player
	Item   item.Stack
}

// EventCommandExecution is emitted when a player executes a command.
type EventCommandExecution struct {
	CancellableBase
	Ctx     *player.Context
	Player  *player.Player
	Command cmd.Command
	Args    []string
}

// EventJoin is emitted when a player handler is attached to a joining player.
type EventJoin struct {
	Base
	Player *player.Player
}

// EventQuit is emitted when a player quits the server.
type EventQuit struct {
	Base
	Player *player.Player
}

// DeclarePlayerEvents returns the declarations of every player event.
func DeclarePlayerEvents() []Declaration {
	return []Declaration{
		Declare[*EventMove](),
		Declare[*EventJump](),
		Declare[*EventTeleport](),
		Declare[*EventToggleSprint](),
		Declare[*EventToggleSneak](),
		Declare[*EventChat](),
		Declare[*EventFoodLoss](),
		Declare[*EventHeal](),
		Declare[*EventHurt](),
		Declare[*EventDeath](),
		Declare[*EventRespawn](),
		Declare[*EventStartBreak](),
		Declare[*EventBlockBreak](),
		Declare[*EventBlockPlace](),
		Declare[*EventBlockPick](),
		Declare[ItemUseEvent](),
		DeclareChild[*EventItemUse, ItemUseEvent](),
		DeclareChild[*EventItemUseOnBlock, ItemUseEvent](),
		DeclareChild[*EventItemUseOnEntity, ItemUseEvent](),
		Declare[*EventAttackEntity](),
		Declare[*EventItemDrop](),
		Declare[*EventCommandExecution](),
		Declare[*EventJoin](),
		Declare[*EventQuit](),
	}
}

// Move events are by far the most frequent, so they are pooled to reduce GC pressure.
var eventMovePool = sync.Pool{New: func() any { return &EventMove{} }}
