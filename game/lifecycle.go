package game

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/kart/components"
	"github.com/pthm-cable/kart/scenario"
	"github.com/pthm-cable/kart/vehicle"
)

// VehicleInfo is a read-only view of one vehicle entity.
type VehicleInfo struct {
	Entity   ecs.Entity
	ID       uint32
	Name     string
	Player   bool
	Controls components.Controls
	Vehicle  *vehicle.Vehicle
}

// SpawnVehicle adds a scripted vehicle on the next free grid slot.
func (g *Game) SpawnVehicle(name string, script *scenario.Script, offset float64, loop bool) ecs.Entity {
	tag, ctrl, chassis := g.newVehicle(name, false)
	pilot := components.Autopilot{Script: script, Offset: offset, Loop: loop}

	entity := g.scriptedMapper.NewEntity(&tag, &ctrl, &chassis, &pilot)
	g.entities = append(g.entities, entity)
	if script != nil {
		g.running++
	}
	return entity
}

// SpawnPlayer adds the keyboard-driven vehicle. Only one player is kept;
// spawning another replaces the previous one.
func (g *Game) SpawnPlayer(name string) ecs.Entity {
	if g.hasPlayer {
		g.RemoveVehicle(g.player)
	}

	tag, ctrl, chassis := g.newVehicle(name, true)
	entity := g.playerMapper.NewEntity(&tag, &ctrl, &chassis)
	g.entities = append(g.entities, entity)
	g.player = entity
	g.hasPlayer = true
	return entity
}

func (g *Game) newVehicle(name string, player bool) (components.Tag, components.Controls, components.Chassis) {
	id := g.nextID
	g.nextID++

	v := vehicle.New(g.cfg.Vehicle, g.cfg.Camera)
	v.PlaceAt(g.gridSlot(len(g.entities)))

	slog.Debug("vehicle spawned", "id", id, "name", name, "player", player, "position", v.Position())

	return components.Tag{ID: id, Name: name, Player: player},
		components.Controls{},
		components.Chassis{Vehicle: v}
}

// gridSlot spreads vehicles along X, alternating sides of the origin.
func (g *Game) gridSlot(i int) mgl64.Vec3 {
	k := float64((i + 1) / 2)
	if i%2 == 0 {
		k = -k
	}
	return mgl64.Vec3{k * g.cfg.Session.Spacing, 0, 0}
}

// RemoveVehicle deletes a vehicle entity. Unknown entities are ignored.
func (g *Game) RemoveVehicle(e ecs.Entity) {
	if !g.world.Alive(e) {
		return
	}
	g.collector.Forget(g.tagMap.Get(e).ID)
	g.world.RemoveEntity(e)

	for i, other := range g.entities {
		if other == e {
			g.entities = append(g.entities[:i], g.entities[i+1:]...)
			break
		}
	}
	if g.hasPlayer && g.player == e {
		g.hasPlayer = false
	}
}

// ResetVehicles returns every vehicle to its grid slot at rest.
func (g *Game) ResetVehicles() {
	for i, e := range g.entities {
		v := g.chassisMap.Get(e).Vehicle
		v.Reset()
		v.PlaceAt(g.gridSlot(i))
		g.collector.Forget(g.tagMap.Get(e).ID)
	}
}

// SetPlayerControls sets the input read by the player vehicle on the next tick.
func (g *Game) SetPlayerControls(c components.Controls) {
	if !g.hasPlayer {
		return
	}
	*g.controlMap.Get(g.player) = c
}

// Player returns the player vehicle, if any.
func (g *Game) Player() (*vehicle.Vehicle, bool) {
	if !g.hasPlayer {
		return nil, false
	}
	return g.chassisMap.Get(g.player).Vehicle, true
}

// Vehicles returns all vehicles in spawn order.
func (g *Game) Vehicles() []VehicleInfo {
	out := make([]VehicleInfo, 0, len(g.entities))
	for _, e := range g.entities {
		tag := g.tagMap.Get(e)
		out = append(out, VehicleInfo{
			Entity:   e,
			ID:       tag.ID,
			Name:     tag.Name,
			Player:   tag.Player,
			Controls: *g.controlMap.Get(e),
			Vehicle:  g.chassisMap.Get(e).Vehicle,
		})
	}
	return out
}
