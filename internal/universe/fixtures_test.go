package universe_test

import (
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"rdmx/internal/logger"
	"rdmx/internal/universe"
)

var _ = Describe("Fixtures", func() {
	var (
		rgbw   = universe.Profile{Name: "rgbw", Channels: []string{"red", "green", "blue", "white"}}
		dimmer = universe.Profile{Name: "dimmer", Channels: []string{"intensity"}}
		rec    *universe.Recorder
		u      *universe.Universe
	)

	BeforeEach(func() {
		var err error
		rec = universe.NewRecorder(4)
		u, err = universe.New("fixtures", rec, logger.Quiet(), universe.Uniform(rgbw))
		Expect(err).NotTo(HaveOccurred())
	})

	It("fills the universe with a uniform profile", func() {
		fixtures := u.Fixtures()
		Expect(fixtures).To(HaveLen(128))
		for i, f := range fixtures {
			Expect(f.Address).To(Equal(i * 4))
			Expect(f.Channels()).To(Equal(universe.Block(i*4, 4)))
		}
		Expect(fixtures[127].Channels().Last).To(Equal(511))
	})

	It("patches a single unit over the whole universe without a layout", func() {
		fixtures, err := universe.Allocate(u, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(fixtures).To(HaveLen(1))
		Expect(fixtures[0].Address).To(Equal(0))
		Expect(fixtures[0].Channels()).To(Equal(universe.All))
	})

	It("lays out mixed allotments in order", func() {
		fixtures, err := universe.Allocate(u, universe.Layout{
			{Profile: rgbw, Count: 2},
			{Profile: dimmer, Count: 3},
			{Profile: rgbw, Count: 1},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(fixtures.Addresses()).To(Equal([]int{0, 4, 8, 9, 10, 11}))
	})

	It("rejects a layout larger than the universe", func() {
		err := u.Repatch(universe.Layout{{Profile: rgbw, Count: 100}, {Profile: rgbw, Count: 29}})
		var shape *universe.InvalidShapeError
		Expect(errors.As(err, &shape)).To(BeTrue())
		Expect(shape.Profile).To(Equal("rgbw"))
		Expect(shape.Channels).To(Equal(400))
		Expect(u.Fixtures()).To(HaveLen(128))
	})

	It("rejects counts whose channel total does not fit an int", func() {
		fixtures, err := universe.Allocate(u, universe.Layout{{Profile: rgbw, Count: 1 << 62}})
		Expect(err).To(BeAssignableToTypeOf(&universe.InvalidShapeError{}))
		Expect(fixtures).To(BeNil())

		_, err = universe.Allocate(u, universe.Layout{{Profile: dimmer, Count: 500}, {Profile: rgbw, Count: 1<<62 + 1}})
		Expect(err).To(BeAssignableToTypeOf(&universe.InvalidShapeError{}))
	})

	It("accepts a layout that fills the universe exactly", func() {
		fixtures, err := universe.Allocate(u, universe.Layout{{Profile: dimmer, Count: 508}, {Profile: rgbw, Count: 1}})
		Expect(err).NotTo(HaveOccurred())
		Expect(fixtures).To(HaveLen(509))
		Expect(fixtures[508].Address).To(Equal(508))
	})

	It("rejects empty profiles and negative counts", func() {
		_, err := universe.Allocate(u, universe.Uniform(universe.Profile{Name: "empty"}))
		Expect(err).To(BeAssignableToTypeOf(&universe.InvalidShapeError{}))
		_, err = universe.Allocate(u, universe.Layout{{Profile: dimmer, Count: -1}})
		Expect(err).To(BeAssignableToTypeOf(&universe.InvalidShapeError{}))
	})

	It("writes only inside its own block", func() {
		f := u.Fixtures()[2]
		Expect(f.Set("green", 200)).To(Succeed())
		Expect(u.Get(9)).To(Equal(byte(200)))
		Expect(f.Get("green")).To(Equal(byte(200)))

		Expect(f.SetAll(10, 20)).To(Succeed())
		Expect(f.Levels()).To(Equal([]byte{10, 20, 10, 20}))
		Expect(u.Get(7)).To(Equal(byte(0)))
		Expect(u.Get(12)).To(Equal(byte(0)))

		Expect(f.Set("amber", 1)).To(MatchError(ContainSubstring("amber")))
	})

	It("writes through a batch", func() {
		before := rec.Sends()
		fixtures := u.Fixtures()
		Expect(u.Batch(func(tx *universe.Tx) error {
			for _, f := range fixtures {
				if err := tx.Fixture(f).SetAll(255, 0, 0, 0); err != nil {
					return err
				}
			}
			return nil
		})).To(Succeed())
		Expect(rec.Sends()).To(Equal(before + 1))

		last, _ := rec.Last()
		Expect(last[508:512]).To(Equal([]byte{255, 0, 0, 0}))
	})

	It("hands out fixtures bound to the batch", func() {
		before := rec.Sends()
		Expect(u.Batch(func(tx *universe.Tx) error {
			fixtures := tx.Fixtures()
			Expect(fixtures).To(HaveLen(128))
			for _, f := range fixtures[:2] {
				if err := f.Set("white", 77); err != nil {
					return err
				}
			}
			return nil
		})).To(Succeed())
		Expect(rec.Sends()).To(Equal(before + 1))
		Expect(u.Get(3)).To(Equal(byte(77)))
		Expect(u.Get(7)).To(Equal(byte(77)))
	})

	It("repatches from scratch and keeps the channel values", func() {
		Expect(u.Set(0, 99)).To(Succeed())
		Expect(u.Repatch(universe.Uniform(dimmer))).To(Succeed())

		fixtures := u.Fixtures()
		Expect(fixtures).To(HaveLen(512))
		Expect(fixtures[511].Address).To(Equal(511))
		Expect(fixtures[0].Profile.Name).To(Equal("dimmer"))
		Expect(fixtures[0].Get("intensity")).To(Equal(byte(99)))
	})
})
