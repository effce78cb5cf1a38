package neural

import (
	"fmt"
	"math"
)

// ErrUnreachableEndpoint is the panic value prefix for connections that
// read from an output or write to an input. Networks built by Random or
// NewNetwork never contain them.
const ErrUnreachableEndpoint = "neural: unreachable endpoint"

// Force is a 3-component force vector, mapped positionally onto the
// input neurons and read back from the output neurons.
type Force [Axes]float32

// Blob is one simulated agent: a genome plus the intermediate state it
// carries from tick to tick.
type Blob struct {
	Network Network
	State   [NumIntermediate]float32
}

// NewBlob wraps a copy of net with freshly seeded state.
// Each state component is a small positive value in (0, p.StateSeed].
func NewBlob(net Network, rng Rand, p Params) *Blob {
	b := &Blob{Network: net}
	for i := range b.State {
		b.State[i] = (1 - rng.Float32()) * p.StateSeed
	}
	return b
}

// Step evaluates the network once and returns the clamped output force.
//
// The output starts as a copy of force. Connections are applied strictly
// in sequence order: a write to an intermediate neuron is visible to every
// later connection of the same step, and the last write to an output wins.
func (b *Blob) Step(force Force, p Params) Force {
	in := sanitize(force)
	out := in

	for i := range b.Network.Connections {
		c := &b.Network.Connections[i]

		var source float32
		switch c.From.Kind {
		case KindInput:
			source = in[c.From.Index]
		case KindIntermediate:
			source = b.State[c.From.Index]
		default:
			panic(fmt.Sprintf("%s: connection %d reads from %s", ErrUnreachableEndpoint, i, c.From))
		}

		value := c.Weight * source

		switch c.To.Kind {
		case KindIntermediate:
			b.State[c.To.Index] = value
		case KindOutput:
			out[c.To.Index] = value / p.OutputScale
		default:
			panic(fmt.Sprintf("%s: connection %d writes to %s", ErrUnreachableEndpoint, i, c.To))
		}
	}

	for i := range out {
		out[i] = clamp(out[i], p.OutputClamp)
	}
	return out
}

// sanitize replaces non-finite components with zero.
func sanitize(f Force) Force {
	for i, v := range f {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			f[i] = 0
		}
	}
	return f
}

// clamp limits x to [-bound, bound]. NaN maps to 0.
func clamp(x, bound float32) float32 {
	if x != x {
		return 0
	}
	if x > bound {
		return bound
	}
	if x < -bound {
		return -bound
	}
	return x
}
