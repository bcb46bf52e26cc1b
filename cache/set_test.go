package cache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Set", func() {
	var set *Set

	BeforeEach(func() {
		set = NewSet(4, NewLRUVictimFinder())
	})

	It("should miss on a fresh set without mutating it", func() {
		Expect(set.Probe(0x10)).To(BeFalse())

		for _, line := range set.Lines() {
			Expect(line.Valid).To(BeFalse())
		}
		Expect(set.recency).To(Equal([]uint64{0, 0, 0, 0}))
	})

	It("should hit a tag right after inserting it", func() {
		Expect(set.Probe(0x10)).To(BeFalse())
		set.Insert(0x10)

		Expect(set.Probe(0x10)).To(BeTrue())
	})

	It("should fill invalid lines in way order", func() {
		set.Insert(0x1)
		set.Insert(0x2)
		set.Insert(0x3)

		lines := set.Lines()
		Expect(lines[0]).To(Equal(Line{Valid: true, Tag: 0x1}))
		Expect(lines[1]).To(Equal(Line{Valid: true, Tag: 0x2}))
		Expect(lines[2]).To(Equal(Line{Valid: true, Tag: 0x3}))
		Expect(lines[3].Valid).To(BeFalse())
	})

	It("should never evict a valid line while an invalid one remains", func() {
		set.Insert(0x1)
		set.Insert(0x2)
		set.Insert(0x3)

		set.Insert(0x4)

		for i, tag := range []uint64{0x1, 0x2, 0x3, 0x4} {
			Expect(set.Lines()[i]).To(Equal(Line{Valid: true, Tag: tag}))
		}
	})

	It("should evict the least recently touched line", func() {
		for _, tag := range []uint64{0x1, 0x2, 0x3, 0x4} {
			set.Insert(tag)
		}

		// 0x1 is now the oldest line.
		set.Insert(0x5)

		Expect(set.Lines()[0]).To(Equal(Line{Valid: true, Tag: 0x5}))
		Expect(set.Probe(0x1)).To(BeFalse())
	})

	It("should treat a probe hit as a touch", func() {
		for _, tag := range []uint64{0x1, 0x2, 0x3, 0x4} {
			set.Insert(tag)
		}

		// Reviving 0x1 makes 0x2 the eviction victim.
		Expect(set.Probe(0x1)).To(BeTrue())
		set.Insert(0x5)

		Expect(set.Probe(0x1)).To(BeTrue())
		Expect(set.Probe(0x2)).To(BeFalse())
		Expect(set.Lines()[1]).To(Equal(Line{Valid: true, Tag: 0x5}))
	})

	It("should assign strictly increasing recency values", func() {
		set.Insert(0x1)
		set.Insert(0x2)
		set.Probe(0x1)

		Expect(set.recency[0]).To(Equal(uint64(3)))
		Expect(set.recency[1]).To(Equal(uint64(2)))
	})
})

var _ = Describe("LRUVictimFinder", func() {
	var (
		finder *LRUVictimFinder
		set    *Set
	)

	BeforeEach(func() {
		finder = NewLRUVictimFinder()
		set = NewSet(4, finder)
	})

	It("should pick the lowest invalid way first", func() {
		set.lines[0].Valid = true
		set.lines[2].Valid = true

		Expect(finder.FindVictim(set)).To(Equal(1))
	})

	It("should break recency ties by the lowest way", func() {
		for i := range set.lines {
			set.lines[i].Valid = true
		}
		set.recency = []uint64{5, 3, 3, 7}

		Expect(finder.FindVictim(set)).To(Equal(1))
	})

	It("should prefer an invalid line over the LRU valid line", func() {
		set.lines[0].Valid = true
		set.lines[1].Valid = true
		set.lines[2].Valid = true
		set.recency = []uint64{1, 2, 3, 9}

		// Way 3 has the largest recency but is invalid, so it still wins.
		Expect(finder.FindVictim(set)).To(Equal(3))
	})
})
