package neural

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned when a connection violates the endpoint roles or pool bounds.
var ErrMalformed = errors.New("neural: malformed network")

// Rand is the random source used for genome construction, state seeding and resampling.
// *math/rand.Rand satisfies it; tests pass seeded generators for reproducibility.
type Rand interface {
	Intn(n int) int
	Float32() float32
}

// Params holds the tunable constants of network construction and actuation.
type Params struct {
	WeightRange float32 // Weights drawn uniformly from [-WeightRange, WeightRange]
	OutputScale float32 // Output neuron value is divided by this
	OutputClamp float32 // Output components clamped to [-OutputClamp, OutputClamp]
	StateSeed   float32 // Intermediate state seeded in (0, StateSeed]
}

// DefaultParams returns the reference configuration.
func DefaultParams() Params {
	return Params{
		WeightRange: 10,
		OutputScale: 100,
		OutputClamp: 1,
		StateSeed:   0.1,
	}
}

// Connection is a weighted directed edge between two neurons.
type Connection struct {
	From   Neuron
	To     Neuron
	Weight float32
}

func (c Connection) validate() error {
	if !c.From.valid() || !c.From.IsSource() {
		return fmt.Errorf("source %s", c.From)
	}
	if !c.To.valid() || !c.To.IsTarget() {
		return fmt.Errorf("target %s", c.To)
	}
	return nil
}

func (c Connection) String() string {
	return fmt.Sprintf("%s -> %s (%+.3f)", c.From, c.To, c.Weight)
}

// Network is a genome: an ordered, fixed-size sequence of connections.
// Evaluation order is the sequence order, so two networks with the same
// connections in a different order are different genomes.
type Network struct {
	Connections [NumConnections]Connection
}

// Random draws a network with independent, uniformly chosen connections.
// Degenerate networks (e.g. every connection feeding the same output) are kept.
func Random(rng Rand, p Params) Network {
	var net Network
	for i := range net.Connections {
		net.Connections[i] = randomConnection(rng, p)
	}
	return net
}

func randomConnection(rng Rand, p Params) Connection {
	var from, to Neuron
	if rng.Intn(2) == 0 {
		from = Input(rng.Intn(NumInputs))
	} else {
		from = Intermediate(rng.Intn(NumIntermediate))
	}
	if rng.Intn(2) == 0 {
		to = Intermediate(rng.Intn(NumIntermediate))
	} else {
		to = Output(rng.Intn(NumOutputs))
	}
	return Connection{
		From:   from,
		To:     to,
		Weight: (rng.Float32()*2 - 1) * p.WeightRange,
	}
}

// NewNetwork builds a network from caller-supplied connections.
// Returns ErrMalformed if any endpoint has the wrong role or an out-of-range index.
func NewNetwork(conns [NumConnections]Connection) (Network, error) {
	net := Network{Connections: conns}
	if err := net.Validate(); err != nil {
		return Network{}, err
	}
	return net, nil
}

// Validate checks every connection against the construction contract.
func (net *Network) Validate() error {
	for i, c := range net.Connections {
		if err := c.validate(); err != nil {
			return fmt.Errorf("%w: connection %d: %v", ErrMalformed, i, err)
		}
	}
	return nil
}

// Clone returns an independent copy of the network.
func (net *Network) Clone() Network {
	return *net
}

func (net *Network) String() string {
	var sb strings.Builder
	for i, c := range net.Connections {
		fmt.Fprintf(&sb, "%d: %s\n", i, c)
	}
	return sb.String()
}
