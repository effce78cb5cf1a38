package neural

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestKeyLayout(t *testing.T) {
	net := fillNetwork(t, Connection{From: Intermediate(7), To: Output(2), Weight: -2.5})
	k := net.Key()

	rec := k[:ConnectionSize]
	if rec[offFromTag] != byte(KindIntermediate) {
		t.Errorf("from tag = %d, want %d", rec[offFromTag], KindIntermediate)
	}
	if got := binary.LittleEndian.Uint64(rec[offFromIndex:]); got != 7 {
		t.Errorf("from index = %d, want 7", got)
	}
	if rec[offToTag] != byte(KindOutput) {
		t.Errorf("to tag = %d, want %d", rec[offToTag], KindOutput)
	}
	if got := binary.LittleEndian.Uint64(rec[offToIndex:]); got != 2 {
		t.Errorf("to index = %d, want 2", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(rec[offWeight:])); got != -2.5 {
		t.Errorf("weight = %f, want -2.5", got)
	}
	for _, off := range []int{1, 7, NeuronSize + 1, NeuronSize + 7, offWeight + 4, ConnectionSize - 1} {
		if rec[off] != 0 {
			t.Errorf("padding byte %d = %d, want 0", off, rec[off])
		}
	}
}

func TestKeyDeterministic(t *testing.T) {
	p := DefaultParams()
	a := Random(rand.New(rand.NewSource(5)), p)
	b := Random(rand.New(rand.NewSource(5)), p)

	if a.Key() != b.Key() {
		t.Error("identical connection sequences produced different keys")
	}

	data, err := a.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	key := a.Key()
	if !bytes.Equal(data, key[:]) {
		t.Error("MarshalBinary disagrees with Key")
	}
	if len(data) != GenomeSize {
		t.Errorf("len = %d, want %d", len(data), GenomeSize)
	}
}

func TestKeyDistinguishesSingleChanges(t *testing.T) {
	base := Random(rand.New(rand.NewSource(11)), DefaultParams())
	baseKey := base.Key()

	tests := []struct {
		name   string
		mutate func(c *Connection)
	}{
		{"weight", func(c *Connection) { c.Weight = math.Nextafter32(c.Weight, 100) }},
		{"weight sign", func(c *Connection) { c.Weight = -c.Weight + 1 }},
		{"source kind", func(c *Connection) {
			if c.From.Kind == KindInput {
				c.From = Intermediate(c.From.Index)
			} else {
				c.From = Input(c.From.Index % NumInputs)
			}
		}},
		{"source index", func(c *Connection) {
			c.From.Index = (c.From.Index + 1) % c.From.Kind.Capacity()
		}},
		{"target kind", func(c *Connection) {
			if c.To.Kind == KindOutput {
				c.To = Intermediate(c.To.Index)
			} else {
				c.To = Output(c.To.Index % NumOutputs)
			}
		}},
		{"target index", func(c *Connection) {
			c.To.Index = (c.To.Index + 1) % c.To.Kind.Capacity()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < NumConnections; i++ {
				changed := base.Clone()
				tt.mutate(&changed.Connections[i])
				if changed == base {
					continue
				}
				if changed.Key() == baseKey {
					t.Errorf("connection %d: change did not alter the key", i)
				}
			}
		})
	}
}

func TestKeyIsOrderSensitive(t *testing.T) {
	a := fillNetwork(t,
		Connection{From: Input(0), To: Output(0), Weight: 1},
		Connection{From: Input(1), To: Output(1), Weight: 2},
	)
	b := fillNetwork(t,
		Connection{From: Input(1), To: Output(1), Weight: 2},
		Connection{From: Input(0), To: Output(0), Weight: 1},
	)

	if a.Key() == b.Key() {
		t.Error("reordered connections produced the same key")
	}
}

func TestUnmarshalBinaryRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	for n := 0; n < 50; n++ {
		net := Random(rng, DefaultParams())
		data, _ := net.MarshalBinary()

		var decoded Network
		if err := decoded.UnmarshalBinary(data); err != nil {
			t.Fatalf("UnmarshalBinary failed: %v", err)
		}
		if decoded != net {
			t.Fatalf("round trip mismatch:\n%s\nvs\n%s", net.String(), decoded.String())
		}
	}
}

func TestUnmarshalBinaryRejects(t *testing.T) {
	net := Random(rand.New(rand.NewSource(2)), DefaultParams())
	good, _ := net.MarshalBinary()

	tests := []struct {
		name    string
		corrupt func([]byte) []byte
	}{
		{"short", func(b []byte) []byte { return b[:GenomeSize-1] }},
		{"unknown tag", func(b []byte) []byte { b[offFromTag] = 9; return b }},
		{"tag padding", func(b []byte) []byte { b[3] = 1; return b }},
		{"weight padding", func(b []byte) []byte { b[offWeight+5] = 1; return b }},
		{"index out of pool", func(b []byte) []byte {
			binary.LittleEndian.PutUint64(b[offToIndex:], 1<<40)
			return b
		}},
		{"output source", func(b []byte) []byte {
			b[offFromTag] = byte(KindOutput)
			binary.LittleEndian.PutUint64(b[offFromIndex:], 0)
			return b
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.corrupt(bytes.Clone(good))
			var decoded Network
			if err := decoded.UnmarshalBinary(data); !errors.Is(err, ErrMalformed) {
				t.Errorf("UnmarshalBinary() = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestDiversitySetCountsDistinct(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	p := DefaultParams()

	distinct := make([]Network, 5)
	for i := range distinct {
		distinct[i] = Random(rng, p)
	}

	// 5 distinct genomes inserted 3 times each, in two different orders
	var forward, shuffled []Network
	for rep := 0; rep < 3; rep++ {
		forward = append(forward, distinct...)
	}
	shuffled = append(shuffled, forward...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	for name, order := range map[string][]Network{"forward": forward, "shuffled": shuffled} {
		set := NewDiversitySet(len(order))
		for i := range order {
			set.Add(&order[i])
		}
		if set.Len() != len(distinct) {
			t.Errorf("%s: Len() = %d, want %d", name, set.Len(), len(distinct))
		}
	}
}
