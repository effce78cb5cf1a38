package neural

// DiversitySet counts distinct genomes by canonical serialization.
type DiversitySet map[Key]struct{}

// NewDiversitySet returns an empty set sized for n genomes.
func NewDiversitySet(n int) DiversitySet {
	return make(DiversitySet, n)
}

// Add inserts the genome; duplicates collapse.
func (s DiversitySet) Add(net *Network) {
	s[net.Key()] = struct{}{}
}

// Len returns the number of distinct genomes seen.
func (s DiversitySet) Len() int {
	return len(s)
}
