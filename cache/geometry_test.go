package cache

import (
	"fmt"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Geometry", func() {
	It("should derive the geometry of a 1KB, 4B-block, 4-way cache", func() {
		g, err := MakeGeometry(1*KB, 4, 4)

		Expect(err).ToNot(HaveOccurred())
		Expect(g.NumBlocks).To(Equal(uint64(256)))
		Expect(g.NumSets).To(Equal(uint64(64)))
		Expect(g.OffsetBits).To(Equal(2))
		Expect(g.IndexBits).To(Equal(6))
		Expect(g.TagBits).To(Equal(24))
	})

	It("should keep the set cardinality invariant", func() {
		g, err := MakeGeometry(4*MB, 64, 8)

		Expect(err).ToNot(HaveOccurred())
		Expect(g.NumSets * uint64(g.Associativity) * g.BlockSizeBytes).
			To(Equal(g.CapacityBytes))
	})

	It("should always split the address into exactly 32 bits", func() {
		capacities := []uint64{1 * KB, 64 * KB, 1 * MB, 4 * MB}
		blockSizes := []uint64{1, 4, 64, 128}
		associativities := []int{1, 2, 4, 8}

		for _, c := range capacities {
			for _, b := range blockSizes {
				for _, a := range associativities {
					// The smallest cache here still has 8 blocks, so
					// every associativity in the list is constructible.
					g, err := MakeGeometry(c, b, a)

					Expect(err).ToNot(HaveOccurred())
					Expect(g.TagBits + g.IndexBits + g.OffsetBits).
						To(Equal(AddressBits))
				}
			}
		}
	})

	It("should reject a non-power-of-two capacity", func() {
		_, err := MakeGeometry(1000, 4, 4)

		Expect(err).To(MatchError(&ConfigError{
			Reason: "capacity must be a positive power of two, got 1000",
		}))
	})

	It("should reject a non-power-of-two block size", func() {
		_, err := MakeGeometry(1*KB, 3, 4)

		Expect(err).To(BeAssignableToTypeOf(&ConfigError{}))
	})

	It("should reject a zero associativity", func() {
		_, err := MakeGeometry(1*KB, 4, 0)

		Expect(err).To(BeAssignableToTypeOf(&ConfigError{}))
	})

	It("should reject a negative associativity", func() {
		// math.MinInt64 converts to 2^63 as a uint64 and would slip a
		// power-of-two check that runs after the conversion.
		for _, a := range []int{-1, -4, math.MinInt64} {
			_, err := MakeGeometry(1<<63, 4, a)

			Expect(err).To(MatchError(&ConfigError{
				Reason: fmt.Sprintf("associativity must be positive, got %d", a),
			}))
		}
	})

	It("should reject a block size larger than the capacity", func() {
		_, err := MakeGeometry(1*KB, 2*KB, 1)

		Expect(err).To(BeAssignableToTypeOf(&ConfigError{}))
	})

	It("should reject an associativity exceeding the block count", func() {
		_, err := MakeGeometry(1*KB, 64, 32)

		Expect(err).To(BeAssignableToTypeOf(&ConfigError{}))
	})

	It("should reject fields that cannot fit in a 32-bit address", func() {
		_, err := MakeGeometry(1<<40, 1, 1)

		Expect(err).To(BeAssignableToTypeOf(&ConfigError{}))
	})

	It("should decode tag and set index", func() {
		g, err := MakeGeometry(1*KB, 4, 4)
		Expect(err).ToNot(HaveOccurred())

		// 0xfffffc00 = tag 0xfffffc, index 0b000000, offset 0b00.
		tag, setID := g.Decode(0xfffffc00)

		Expect(tag).To(Equal(uint64(0xfffffc)))
		Expect(setID).To(Equal(uint64(0)))

		// 0x104 = 0b1_0000_0100: tag 1, index 1, offset 0.
		tag, setID = g.Decode(0x00000104)
		Expect(tag).To(Equal(uint64(1)))
		Expect(setID).To(Equal(uint64(1)))
	})

	It("should map every address to set 0 of a fully associative cache", func() {
		g, err := MakeGeometry(1*KB, 4, 256)

		Expect(err).ToNot(HaveOccurred())
		Expect(g.NumSets).To(Equal(uint64(1)))
		Expect(g.IndexBits).To(Equal(0))

		for _, addr := range []uint64{0x0, 0x4, 0x3fc, 0xffffffff} {
			_, setID := g.Decode(addr)
			Expect(setID).To(Equal(uint64(0)))
		}
	})
})
