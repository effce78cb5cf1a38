package neural

// RGB is an 8-bit per channel display color.
type RGB struct {
	R, G, B uint8
}

// Color derives a display color from the canonical serialization.
//
// Per connection record: red averages the three high weight bytes, so
// nearby weights give nearby reds; green averages the spread source tag and
// index; blue averages the spread target tag and index. Channel sums are
// averaged over all connections. The result is display-only.
func Color(net *Network) RGB {
	k := net.Key()

	var r, g, b int
	for i := 0; i < NumConnections; i++ {
		rec := k[i*ConnectionSize : (i+1)*ConnectionSize]

		r += (int(rec[offWeight+1]) + int(rec[offWeight+2]) + int(rec[offWeight+3])) / 3
		g += (spread(rec[offFromTag], numKinds) + spread(rec[offFromIndex], NumIntermediate)) / 2
		b += (spread(rec[offToTag], numKinds) + spread(rec[offToIndex], NumIntermediate)) / 2
	}

	return RGB{
		R: uint8(r / NumConnections),
		G: uint8(g / NumConnections),
		B: uint8(b / NumConnections),
	}
}

// spread maps v in [0, n) onto [0, 255].
func spread(v byte, n int) int {
	if n <= 1 {
		return 0
	}
	s := int(v) * 255 / (n - 1)
	if s > 255 {
		return 255
	}
	return s
}
