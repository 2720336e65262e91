package main

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"rdmx/internal/config"
	"rdmx/internal/logger"
	"rdmx/internal/universe"
)

var _ = Describe("BuildLayout", func() {
	profiles := map[string]config.ProfileConf{
		"rgb":    {Name: "rgb", Channels: []string{"red", "green", "blue"}},
		"dimmer": {Name: "dimmer", Channels: []string{"intensity"}},
	}

	It("patches the whole universe without a patch", func() {
		layout, err := BuildLayout(config.UniverseConf{})
		Expect(err).NotTo(HaveOccurred())
		Expect(layout).To(BeNil())
	})

	It("requires a profile library for a patch", func() {
		_, err := BuildLayout(config.UniverseConf{Patch: []config.PatchConf{{Profile: "rgb", Count: 1}}})
		Expect(err).To(HaveOccurred())
	})

	It("fills the rest of the universe with a zero count", func() {
		layout, err := layoutFromProfiles([]config.PatchConf{
			{Profile: "rgb", Count: 10},
			{Profile: "dimmer"},
		}, profiles)
		Expect(err).NotTo(HaveOccurred())
		Expect(layout[1].Count).To(Equal(482))

		u, err := universe.New("layout", universe.NewRecorder(1), logger.Quiet(), layout)
		Expect(err).NotTo(HaveOccurred())
		fixtures := u.Fixtures()
		Expect(fixtures).To(HaveLen(492))
		Expect(fixtures[len(fixtures)-1].Address).To(Equal(511))
	})

	It("rejects patches larger than the universe", func() {
		_, err := layoutFromProfiles([]config.PatchConf{{Profile: "rgb", Count: 1 << 62}, {Profile: "dimmer"}}, profiles)
		Expect(err).To(MatchError(ContainSubstring("exceeds")))

		_, err = layoutFromProfiles([]config.PatchConf{{Profile: "dimmer", Count: -1}}, profiles)
		Expect(err).To(MatchError(ContainSubstring("negative")))
	})

	It("rejects unknown profiles and double fills", func() {
		_, err := layoutFromProfiles([]config.PatchConf{{Profile: "moving-head", Count: 1}}, profiles)
		Expect(err).To(MatchError(ContainSubstring("unknown profile")))

		_, err = layoutFromProfiles([]config.PatchConf{{Profile: "rgb"}, {Profile: "dimmer"}}, profiles)
		Expect(err).To(MatchError(ContainSubstring("only one")))
	})
})
