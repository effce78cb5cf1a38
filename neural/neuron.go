// Package neural provides the fixed-topology random networks that drive blobs.
package neural

import "fmt"

// Network dimensions (compile-time constants for array sizing).
const (
	Axes            = 3  // Force components: x, y, z
	NumInputs       = Axes
	NumIntermediate = 10
	NumOutputs      = Axes
	NumConnections  = 8
)

// Kind tags which neuron pool a Neuron refers to.
// The numeric value is the tag written by the canonical serialization.
type Kind uint8

const (
	KindInput Kind = iota
	KindIntermediate
	KindOutput
)

// numKinds is the number of neuron pools.
const numKinds = 3

// Capacity returns the pool size for the kind, or 0 for an unknown kind.
func (k Kind) Capacity() int {
	switch k {
	case KindInput:
		return NumInputs
	case KindIntermediate:
		return NumIntermediate
	case KindOutput:
		return NumOutputs
	}
	return 0
}

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindIntermediate:
		return "intermediate"
	case KindOutput:
		return "output"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Neuron is a tagged reference into one of the three neuron pools.
type Neuron struct {
	Kind  Kind
	Index int
}

// Input returns a reference to input neuron i.
func Input(i int) Neuron { return mustNeuron(KindInput, i) }

// Intermediate returns a reference to intermediate neuron i.
func Intermediate(i int) Neuron { return mustNeuron(KindIntermediate, i) }

// Output returns a reference to output neuron i.
func Output(i int) Neuron { return mustNeuron(KindOutput, i) }

func mustNeuron(k Kind, i int) Neuron {
	n := Neuron{Kind: k, Index: i}
	if !n.valid() {
		panic(fmt.Sprintf("neural: %s index %d outside pool of %d", k, i, k.Capacity()))
	}
	return n
}

// valid reports whether the index lies inside the pool of a known kind.
func (n Neuron) valid() bool {
	return n.Index >= 0 && n.Index < n.Kind.Capacity()
}

// IsSource reports whether the neuron may start a connection.
func (n Neuron) IsSource() bool {
	return n.Kind == KindInput || n.Kind == KindIntermediate
}

// IsTarget reports whether the neuron may end a connection.
func (n Neuron) IsTarget() bool {
	return n.Kind == KindIntermediate || n.Kind == KindOutput
}

func (n Neuron) String() string {
	return fmt.Sprintf("%s[%d]", n.Kind, n.Index)
}
