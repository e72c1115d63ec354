package archetypes

import (
	"github.com/automoto/novadrop/components"
	cfg "github.com/automoto/novadrop/config"
	"github.com/automoto/novadrop/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var (
	Piece = newArchetype(
		tags.Piece,
		components.Piece,
		components.Body,
		components.Material,
		components.Object,
	)
	Wall = newArchetype(
		tags.Boundary,
		components.Bounds,
		components.Object,
	)
	Space = newArchetype(
		components.Space,
	)
	Audio = newArchetype(
		components.Audio,
	)
	Flash = newArchetype(
		components.Flash,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(ecs *ecs.ECS, cs ...donburi.IComponentType) *donburi.Entry {
	e := ecs.World.Entry(ecs.Create(
		cfg.LayerDefault,
		append(a.components, cs...)...,
	))
	return e
}
