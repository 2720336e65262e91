package logger_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"rdmx/internal/config"
	"rdmx/internal/logger"
)

var _ = Describe("Logger", func() {
	It("uses the configured level", func() {
		log, err := logger.NewLogger(config.LogConf{Level: "warn"})
		Expect(err).NotTo(HaveOccurred())
		Expect(log.GetLevel()).To(Equal("warning"))
	})

	It("rejects an unknown level", func() {
		_, err := logger.NewLogger(config.LogConf{Level: "loud"})
		Expect(err).To(HaveOccurred())
	})

	It("rejects an unknown format", func() {
		_, err := logger.NewLogger(config.LogConf{Level: "info", Format: "xml"})
		Expect(err).To(MatchError(ContainSubstring("format")))
	})

	It("keeps fields on derived loggers", func() {
		log := logger.Quiet().With(logger.Fields{"module": "test"})
		Expect(log.Data).To(HaveKeyWithValue("module", "test"))
		Expect(log.GetLevel()).To(Equal("panic"))
	})
})
