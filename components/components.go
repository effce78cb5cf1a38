// Package components defines ECS components for the simulation.
package components

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/blobs/neural"
)

// Tag identifies a blob; the game keeps each blob's agent under this ID.
type Tag struct {
	ID uint32
}

// Position is a blob's world position.
type Position struct {
	r3.Vec
}

// Velocity is a blob's world velocity in units per second.
type Velocity struct {
	r3.Vec
}

// ExternalForce is the force the blob produced on its last step.
// It is both the network input of the next step and the physics input.
type ExternalForce struct {
	Force neural.Force
}

// Tint is the display color derived from the blob's genome.
type Tint struct {
	R, G, B uint8
}

// TintFromRGB converts a genome color to a Tint component.
func TintFromRGB(c neural.RGB) Tint {
	return Tint{R: c.R, G: c.G, B: c.B}
}
