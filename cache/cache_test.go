package cache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Cache", func() {
	It("should reject an invalid geometry at construction", func() {
		c, err := New(1000, 4, 4)

		Expect(c).To(BeNil())
		Expect(err).To(BeAssignableToTypeOf(&ConfigError{}))
	})

	It("should miss on the first access to any address", func() {
		c, err := New(1*KB, 4, 4)
		Expect(err).ToNot(HaveOccurred())

		for _, addr := range []uint64{0x0, 0x1000, 0xdeadbeef} {
			hit, err := c.Access(addr)
			Expect(err).ToNot(HaveOccurred())
			Expect(hit).To(BeFalse())
		}
	})

	It("should hit a resident block regardless of its offset bits", func() {
		c, _ := New(1*KB, 4, 4)

		hit, _ := c.Access(0x100)
		Expect(hit).To(BeFalse())

		// Same block, different byte.
		hit, _ = c.Access(0x103)
		Expect(hit).To(BeTrue())
	})

	It("should not evict while a 4-way set still has free lines", func() {
		c, _ := New(1*KB, 4, 4)

		// Four distinct tags in set 0. 0x100 apart with 6 index bits and
		// 2 offset bits, so all collide on the same set.
		for _, addr := range []uint64{0x000, 0x100, 0x200, 0x300} {
			hit, _ := c.Access(addr)
			Expect(hit).To(BeFalse())
		}

		// All four remain resident.
		for _, addr := range []uint64{0x000, 0x100, 0x200, 0x300} {
			hit, _ := c.Access(addr)
			Expect(hit).To(BeTrue())
		}

		// A fifth tag evicts the least recently touched one, 0x000.
		hit, _ := c.Access(0x400)
		Expect(hit).To(BeFalse())

		hit, _ = c.Access(0x000)
		Expect(hit).To(BeFalse())
	})

	It("should thrash a direct-mapped set on conflicting tags", func() {
		c, _ := New(1*KB, 4, 1)

		// A and B map to the same set with different tags.
		a := uint64(0x0000)
		b := uint64(0x0400)

		hit, _ := c.Access(a)
		Expect(hit).To(BeFalse())
		hit, _ = c.Access(b)
		Expect(hit).To(BeFalse())
		hit, _ = c.Access(a)
		Expect(hit).To(BeFalse())
	})

	It("should reject an out-of-range address without touching state", func() {
		c, _ := New(1*KB, 4, 4)

		hit, err := c.Access(1 << AddressBits)

		Expect(hit).To(BeFalse())
		Expect(err).To(MatchError(&AddressRangeError{Addr: 1 << AddressBits}))

		// The rejected access left every line invalid.
		for setID := uint64(0); setID < c.Geometry().NumSets; setID++ {
			for _, line := range c.Set(setID).Lines() {
				Expect(line.Valid).To(BeFalse())
			}
		}
	})

	It("should be deterministic over a repeated sequence", func() {
		addrs := []uint64{0x0, 0x4, 0x100, 0x0, 0x4400, 0x100, 0x8400, 0x0}

		run := func() []bool {
			c, _ := New(1*KB, 4, 2)
			outcomes := make([]bool, 0, len(addrs))
			for _, addr := range addrs {
				hit, _ := c.Access(addr)
				outcomes = append(outcomes, hit)
			}
			return outcomes
		}

		Expect(run()).To(Equal(run()))
	})
})
