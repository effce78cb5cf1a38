package neural

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Canonical layout sizes in bytes.
//
//	neuron:     tag u8 | 7 zero bytes | index u64 LE
//	connection: from neuron | to neuron | weight f32 LE bits | 4 zero bytes
//	genome:     NumConnections connections in sequence order
const (
	NeuronSize     = 16
	ConnectionSize = 2*NeuronSize + 8
	GenomeSize     = NumConnections * ConnectionSize
)

// Byte offsets inside a connection record.
const (
	offFromTag   = 0
	offFromIndex = 8
	offToTag     = NeuronSize
	offToIndex   = NeuronSize + 8
	offWeight    = 2 * NeuronSize
)

// Key is the canonical serialization of a network. Two networks are the
// same genome iff their keys are equal; Key is usable as a map key.
type Key [GenomeSize]byte

// Key returns the canonical serialization as a fixed-size array.
func (net *Network) Key() Key {
	var k Key
	net.AppendBinary(k[:0])
	return k
}

// AppendBinary appends the canonical serialization to dst.
func (net *Network) AppendBinary(dst []byte) []byte {
	for _, c := range net.Connections {
		dst = appendNeuron(dst, c.From)
		dst = appendNeuron(dst, c.To)
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(c.Weight))
		dst = append(dst, 0, 0, 0, 0)
	}
	return dst
}

func appendNeuron(dst []byte, n Neuron) []byte {
	dst = append(dst, byte(n.Kind), 0, 0, 0, 0, 0, 0, 0)
	return binary.LittleEndian.AppendUint64(dst, uint64(n.Index))
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (net *Network) MarshalBinary() ([]byte, error) {
	return net.AppendBinary(make([]byte, 0, GenomeSize)), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The input must be
// exactly GenomeSize bytes with zero padding and a valid network.
func (net *Network) UnmarshalBinary(data []byte) error {
	if len(data) != GenomeSize {
		return fmt.Errorf("%w: genome is %d bytes, want %d", ErrMalformed, len(data), GenomeSize)
	}

	var decoded Network
	for i := range decoded.Connections {
		rec := data[i*ConnectionSize : (i+1)*ConnectionSize]
		from, err := decodeNeuron(rec[offFromTag:offToTag])
		if err != nil {
			return fmt.Errorf("%w: connection %d source: %v", ErrMalformed, i, err)
		}
		to, err := decodeNeuron(rec[offToTag:offWeight])
		if err != nil {
			return fmt.Errorf("%w: connection %d target: %v", ErrMalformed, i, err)
		}
		if !zero(rec[offWeight+4:]) {
			return fmt.Errorf("%w: connection %d has non-zero padding", ErrMalformed, i)
		}
		decoded.Connections[i] = Connection{
			From:   from,
			To:     to,
			Weight: math.Float32frombits(binary.LittleEndian.Uint32(rec[offWeight:])),
		}
	}

	if err := decoded.Validate(); err != nil {
		return err
	}
	*net = decoded
	return nil
}

func decodeNeuron(rec []byte) (Neuron, error) {
	if rec[0] >= numKinds {
		return Neuron{}, fmt.Errorf("unknown tag %d", rec[0])
	}
	if !zero(rec[1:8]) {
		return Neuron{}, fmt.Errorf("non-zero padding")
	}
	idx := binary.LittleEndian.Uint64(rec[8:])
	kind := Kind(rec[0])
	if idx >= uint64(kind.Capacity()) {
		return Neuron{}, fmt.Errorf("%s index %d outside pool", kind, idx)
	}
	return Neuron{Kind: kind, Index: int(idx)}, nil
}

func zero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
