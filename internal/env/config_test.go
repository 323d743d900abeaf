package env_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/sethvargo/go-envconfig"

	"github.com/luma/memwatch/internal/env"
)

var _ = Describe("env", func() {
	Describe("LoadConfigFrom()", func() {
		It("applies defaults", func() {
			conf, err := env.LoadConfigFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
			Expect(err).To(Succeed())
			Expect(conf.Addr).To(Equal("127.0.0.1:3333"))
			Expect(conf.DialTimeout).To(Equal(5 * time.Second))
			Expect(conf.LogLevel).To(Equal("info"))
			Expect(conf.BridgeAddr).To(Equal("127.0.0.1:7362"))
			Expect(conf.DebugHTTP).To(BeFalse())
		})

		It("reads overrides", func() {
			conf, err := env.LoadConfigFrom(context.Background(), envconfig.MapLookuper(map[string]string{
				"MEMWATCH_ADDR":         "10.0.0.2:4444",
				"MEMWATCH_DIAL_TIMEOUT": "250ms",
				"MEMWATCH_DEBUG_HTTP":   "true",
			}))
			Expect(err).To(Succeed())
			Expect(conf.Addr).To(Equal("10.0.0.2:4444"))
			Expect(conf.DialTimeout).To(Equal(250 * time.Millisecond))
			Expect(conf.DebugHTTP).To(BeTrue())
		})

		It("rejects malformed values", func() {
			_, err := env.LoadConfigFrom(context.Background(), envconfig.MapLookuper(map[string]string{
				"MEMWATCH_DIAL_TIMEOUT": "soon",
			}))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("MakeLogger()", func() {
		It("accepts zap level names", func() {
			log, err := env.MakeLogger("debug")
			Expect(err).To(Succeed())
			Expect(log.Core().Enabled(-1)).To(BeTrue())
		})

		It("rejects unknown levels", func() {
			_, err := env.MakeLogger("loud")
			Expect(err).To(HaveOccurred())
		})
	})
})
