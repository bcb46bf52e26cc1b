package cache

// A VictimFinder decides which line of a set should receive an incoming
// block.
type VictimFinder interface {
	FindVictim(set *Set) (way int)
}

// LRUVictimFinder selects the least recently used line of a set.
type LRUVictimFinder struct {
}

// NewLRUVictimFinder returns a newly constructed LRU victim finder.
func NewLRUVictimFinder() *LRUVictimFinder {
	f := new(LRUVictimFinder)
	return f
}

// FindVictim returns the way of the line to replace. An invalid line, if
// present, is always chosen before any valid line. Among valid lines the
// smallest recency wins, ties broken by the lowest way, so the outcome is
// deterministic.
func (f *LRUVictimFinder) FindVictim(set *Set) int {
	// First try filling an invalid line.
	for i := range set.lines {
		if !set.lines[i].Valid {
			return i
		}
	}

	victim := 0
	for i := 1; i < len(set.lines); i++ {
		if set.recency[i] < set.recency[victim] {
			victim = i
		}
	}

	return victim
}
