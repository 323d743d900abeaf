package render_test

import (
	"bytes"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/tidwall/gjson"

	"github.com/luma/memwatch/internal/render"
	"github.com/luma/memwatch/protocol"
)

var _ = Describe("render", func() {
	Describe("ParseAddress()", func() {
		It("accepts hex and decimal", func() {
			Expect(render.ParseAddress("0x00ECC430")).To(Equal(uint32(0x00ECC430)))
			Expect(render.ParseAddress("16")).To(Equal(uint32(16)))
		})

		It("rejects addresses wider than 32 bits", func() {
			_, err := render.ParseAddress("0x100000000")
			Expect(err).To(HaveOccurred())
		})

		It("formats what it parses", func() {
			Expect(render.Address(0x00ECC430)).To(Equal("0x00ECC430"))
		})
	})

	Describe("WatchesJSON()", func() {
		It("renders an empty table as []", func() {
			out, err := render.WatchesJSON(protocol.Watches{})
			Expect(err).To(Succeed())
			Expect(string(out)).To(Equal(`[]`))
		})

		It("renders typed values in table order", func() {
			out, err := render.WatchesJSON(protocol.Watches{
				protocol.NewWatch(0x00ECC430, protocol.U32, 2),
				protocol.NewWatch(0x10, protocol.I8, 0xFF),
			})
			Expect(err).To(Succeed())

			doc := gjson.ParseBytes(out)
			Expect(doc.Get("#").Int()).To(Equal(int64(2)))
			Expect(doc.Get("0.address").String()).To(Equal("0x00ECC430"))
			Expect(doc.Get("0.type").String()).To(Equal("u32"))
			Expect(doc.Get("0.value").Int()).To(Equal(int64(2)))
			Expect(doc.Get("1.value").Int()).To(Equal(int64(-1)))
			Expect(doc.Get("1.raw").Int()).To(Equal(int64(255)))
			Expect(doc.Get("1.width").Int()).To(Equal(int64(1)))
			Expect(doc.Get("1.sign_tag").Exists()).To(BeFalse())
		})

		It("flags entries typed by fallback", func() {
			out, err := render.WatchesJSON(protocol.Watches{{
				Address:  0x10,
				Width:    1,
				Raw:      3,
				DataType: protocol.U8,
				SignTag:  protocol.TagFloat,
			}})
			Expect(err).To(Succeed())
			Expect(gjson.GetBytes(out, "0.sign_tag").Int()).To(Equal(int64(3)))
		})
	})

	Describe("ValueJSON()", func() {
		It("renders a float", func() {
			out, err := render.ValueJSON(0x20, protocol.F32Value(1.5))
			Expect(err).To(Succeed())
			Expect(gjson.GetBytes(out, "value").Float()).To(Equal(1.5))
			Expect(gjson.GetBytes(out, "type").String()).To(Equal("f32"))
		})
	})

	Describe("WatchesTable()", func() {
		It("writes a header and one row per watch", func() {
			w := bytes.NewBuffer([]byte{})
			Expect(render.WatchesTable(w, protocol.Watches{
				protocol.NewWatch(0x00ECC430, protocol.I16, 0xFFFE),
			})).To(Succeed())

			Expect(w.String()).To(ContainSubstring("ADDRESS"))
			Expect(w.String()).To(ContainSubstring("0x00ECC430"))
			Expect(w.String()).To(ContainSubstring("-2"))
			Expect(w.String()).To(ContainSubstring("0xFFFE"))
		})
	})
})
