// Package components defines the agent record and the ECS components for
// nutrient zones.
package components

// Agent is a single trail-following particle.
// Agents live in a flat slice owned by the simulation, not in the ECS world:
// the per-frame pass indexes them directly by worker chunk.
type Agent struct {
	X       float32 `json:"x"` // cell coordinates in [0,width) x [0,height)
	Y       float32 `json:"y"`
	Heading float32 `json:"heading"` // radians in [0, 2pi)
}

// Position represents an entity's world position in cells.
type Position struct {
	X, Y float32
}

// Zone describes a disk-shaped nutrient attractor.
type Zone struct {
	Radius   float32
	Strength float32
}
