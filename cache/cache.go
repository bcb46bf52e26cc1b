package cache

import "fmt"

// An AddressRangeError reports an address that does not fit in AddressBits
// bits. The offending access is rejected without touching any cache state.
type AddressRangeError struct {
	Addr uint64
}

func (e *AddressRangeError) Error() string {
	return fmt.Sprintf(
		"address 0x%x does not fit in %d bits", e.Addr, AddressBits)
}

// A Cache routes each address to its set and answers hit or miss. One
// Cache instance measures one geometry from a cold start; state never
// carries over between instances.
type Cache struct {
	geometry Geometry
	sets     []*Set
}

// New constructs a cold cache with the given geometry. All lines start
// invalid. Geometry validation happens here, never per access.
func New(
	capacityBytes, blockSizeBytes uint64,
	associativity int,
) (*Cache, error) {
	geometry, err := MakeGeometry(capacityBytes, blockSizeBytes, associativity)
	if err != nil {
		return nil, err
	}

	victimFinder := NewLRUVictimFinder()

	c := &Cache{
		geometry: geometry,
		sets:     make([]*Set, geometry.NumSets),
	}
	for i := range c.sets {
		c.sets[i] = NewSet(associativity, victimFinder)
	}

	return c, nil
}

// Geometry returns the derived geometry of the cache.
func (c *Cache) Geometry() Geometry {
	return c.geometry
}

// Access replays one address through the cache and reports whether it hit.
// On a miss the block is brought in, evicting the LRU line of its set when
// no line is free.
func (c *Cache) Access(addr uint64) (hit bool, err error) {
	if addr >= 1<<AddressBits {
		return false, &AddressRangeError{Addr: addr}
	}

	tag, setID := c.geometry.Decode(addr)
	set := c.sets[setID]

	if set.Probe(tag) {
		return true, nil
	}

	set.Insert(tag)

	return false, nil
}

// Set returns the set with the given index.
func (c *Cache) Set(setID uint64) *Set {
	return c.sets[setID]
}
