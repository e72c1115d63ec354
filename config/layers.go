package config

import "github.com/yohamta/donburi/ecs"

// Render layers
const (
	LayerDefault ecs.LayerID = iota
	LayerHUD
)
