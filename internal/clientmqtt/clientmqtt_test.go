package clientmqtt

import (
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"rdmx/internal/logger"
	"rdmx/internal/universe"
)

var _ = Describe("ClientMQTT", func() {
	var (
		rec *universe.Recorder
		u   *universe.Universe
		c   *ClientMQTT
	)

	BeforeEach(func() {
		var err error
		rec = universe.NewRecorder(4)
		u, err = universe.New("stage", rec, logger.Quiet(), universe.Uniform(universe.Profile{
			Name:     "rgb",
			Channels: []string{"red", "green", "blue"},
		}))
		Expect(err).NotTo(HaveOccurred())

		c = NewClient(logger.Quiet(), MQTTConf{Host: "localhost", Port: "1883", Prefix: "rdmx"}, u.Name())
		c.target = u
	})

	It("fills in a client id and schema", func() {
		Expect(c.cfgClient.ClientID).To(HavePrefix("rdmx-"))
		Expect(c.cfgClient.Schema).To(Equal("tcp"))
		Expect(c.topics.set).To(Equal("rdmx/stage/set"))
		Expect(c.topics.state).To(Equal("rdmx/stage/state"))
	})

	It("applies a command message as one flush", func() {
		before := rec.Sends()
		err := c.handle("rdmx/stage/set", []byte(`[
			{"channel": 0, "values": [10, 20, 30]},
			{"channel": 100, "count": 4, "values": [1, 2]},
			{"fixture": 2, "values": [255]}
		]`))
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.Sends()).To(Equal(before + 1))

		Expect(u.Slice(universe.Block(0, 3))).To(Equal([]byte{10, 20, 30}))
		Expect(u.Slice(universe.Block(100, 4))).To(Equal([]byte{1, 2, 1, 2}))
		Expect(u.Slice(universe.Block(6, 3))).To(Equal([]byte{255, 255, 255}))
	})

	It("reports mismatched patterns", func() {
		err := c.handle("rdmx/stage/set", []byte(`[{"channel": 0, "count": 5, "values": [1, 2]}]`))
		var mismatch *universe.MismatchedPatternError
		Expect(errors.As(err, &mismatch)).To(BeTrue())
	})

	It("reports a negative count as an empty target", func() {
		err := c.handle("rdmx/stage/set", []byte(`[{"channel": 10, "count": -1, "values": [1]}]`))
		Expect(errors.Is(err, universe.ErrNoChannels)).To(BeTrue())
	})

	It("rejects bad messages", func() {
		Expect(c.handle("rdmx/other/set", []byte(`[]`))).To(MatchError(ContainSubstring("unexpected topic")))
		Expect(c.handle("rdmx/stage/set", []byte(`{`))).To(MatchError(ContainSubstring("parsed")))
		Expect(c.handle("rdmx/stage/set", []byte(`[{"channel": 0, "values": [256]}]`))).To(MatchError(ContainSubstring("DMX level")))
		Expect(c.handle("rdmx/stage/set", []byte(`[{"fixture": 999, "values": [1]}]`))).To(MatchError(ContainSubstring("not patched")))
	})

	It("needs a connection to send or subscribe", func() {
		Expect(c.Send([universe.NumChannels]byte{})).To(MatchError(ErrNotConnected))
		Expect(c.Start(u)).To(MatchError(ErrNotConnected))
	})
})
