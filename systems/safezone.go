// Package systems contains the simulation systems: survival test, movement,
// and the generational reset.
package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// SafeZone is the fixed cuboid whose occupants survive a generational reset.
// It is never mutated after construction and is shared read-only.
type SafeZone struct {
	box r3.Box
}

// NewSafeZone builds a zone of the given edge lengths centered on center.
func NewSafeZone(center, size r3.Vec) SafeZone {
	half := r3.Scale(0.5, size)
	return SafeZone{box: r3.Box{
		Min: r3.Sub(center, half),
		Max: r3.Add(center, half),
	}}
}

// Box returns the zone bounds.
func (z SafeZone) Box() r3.Box {
	return z.box
}

// Contains reports whether p lies inside the zone. Faces, edges and
// corners count as inside. Non-finite points are never inside.
func (z SafeZone) Contains(p r3.Vec) bool {
	return within(p.X, z.box.Min.X, z.box.Max.X) &&
		within(p.Y, z.box.Min.Y, z.box.Max.Y) &&
		within(p.Z, z.box.Min.Z, z.box.Max.Z)
}

func within(v, lo, hi float64) bool {
	if math.IsNaN(v) {
		return false
	}
	return v >= lo && v <= hi
}
