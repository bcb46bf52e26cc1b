package cache

// A Line is one way of a set: a valid bit plus the tag of the block that
// currently occupies it.
type Line struct {
	Valid bool
	Tag   uint64
}

// A Set is an associative bucket of lines with a recency value per line.
// Recency is a logical sequence number, not a physical time: a line touched
// later always carries a larger value. All values start at 0, so every
// line of a fresh set is equally old.
type Set struct {
	lines   []Line
	recency []uint64

	victimFinder VictimFinder
}

// NewSet creates a set with one invalid line per way.
func NewSet(associativity int, victimFinder VictimFinder) *Set {
	s := &Set{
		lines:        make([]Line, associativity),
		recency:      make([]uint64, associativity),
		victimFinder: victimFinder,
	}

	return s
}

// Probe looks a tag up in the set. On a hit the touched line becomes the
// most recently used one. On a miss the set is left untouched.
func (s *Set) Probe(tag uint64) bool {
	for i := range s.lines {
		if s.lines[i].Valid && s.lines[i].Tag == tag {
			s.touch(i)
			return true
		}
	}

	return false
}

// Insert places a tag into the line chosen by the victim finder and makes
// that line the most recently used one. It must only be called after a
// Probe miss.
func (s *Set) Insert(tag uint64) {
	way := s.victimFinder.FindVictim(s)

	s.lines[way].Valid = true
	s.lines[way].Tag = tag
	s.touch(way)
}

// Lines returns the lines of the set, ordered by way.
func (s *Set) Lines() []Line {
	return s.lines
}

// touch makes a line the most recently used one of the set by assigning it
// the current maximum recency plus one.
func (s *Set) touch(way int) {
	max := uint64(0)
	for _, r := range s.recency {
		if r > max {
			max = r
		}
	}

	s.recency[way] = max + 1
}
