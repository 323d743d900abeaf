package client_test

import (
	"bytes"
	"errors"
	"io"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/luma/memwatch/client"
	"github.com/luma/memwatch/protocol"
)

// stream is a scripted duplex: reads come from reply, writes land in sent.
type stream struct {
	reply *bytes.Reader
	sent  bytes.Buffer
}

func newStream(reply ...byte) *stream {
	return &stream{reply: bytes.NewReader(reply)}
}

func (s *stream) Read(p []byte) (int, error)  { return s.reply.Read(p) }
func (s *stream) Write(p []byte) (int, error) { return s.sent.Write(p) }

type failingWriter struct{ err error }

func (f failingWriter) Read(p []byte) (int, error)  { return 0, io.EOF }
func (f failingWriter) Write(p []byte) (int, error) { return 0, f.err }

var _ = Describe("Operations", func() {
	Describe("Read()", func() {
		It("sends a READ frame and returns the raw reply", func() {
			s := newStream(0x00, 0x00, 0x00, 0x02)

			value, err := client.Read(s, 0x00ECC430, 4)
			Expect(err).To(Succeed())
			Expect(value).To(Equal(uint32(2)))
			Expect(s.sent.Bytes()).To(Equal([]byte{0xFF, 0x01, 0x00, 0xEC, 0xC4, 0x30, 0x04, 0xFE}))
		})

		It("round trips every width", func() {
			for _, width := range []uint8{1, 2, 4} {
				for _, address := range []uint32{0, 1, 0x00ECC430, 0xFFFFFFFF} {
					reply := bytes.NewBuffer([]byte{})
					Expect(protocol.WriteRawValue(reply, width, 0xA1B2C3D4)).To(Succeed())

					s := newStream(reply.Bytes()...)
					value, err := client.Read(s, address, width)
					Expect(err).To(Succeed())
					Expect(value).To(Equal(uint32(0xA1B2C3D4) & (0xFFFFFFFF >> (32 - 8*uint(width)))))

					req, err := protocol.ParseRequest(&s.sent)
					Expect(err).To(Succeed())
					Expect(req).To(Equal(&protocol.ReadRequest{Address: address, Width: width}))
				}
			}
		})

		It("reinterprets the reply with ReadValue()", func() {
			s := newStream(0xFF, 0xFE)

			value, err := client.ReadValue(s, 0x10, protocol.I16)
			Expect(err).To(Succeed())
			Expect(value.Int()).To(Equal(int64(-2)))
		})

		It("fails before writing for an invalid width", func() {
			s := newStream()

			_, err := client.Read(s, 0x10, 3)
			Expect(errors.Is(err, protocol.ErrInvalidByteSize)).To(BeTrue())
			Expect(s.sent.Len()).To(BeZero())
		})

		It("returns short reads as transport errors", func() {
			s := newStream(0x00, 0x01)

			_, err := client.Read(s, 0x10, 4)
			Expect(err).To(MatchError(io.ErrUnexpectedEOF))
		})
	})

	Describe("Write()", func() {
		It("encodes the declared width regardless of magnitude", func() {
			s := newStream()

			Expect(client.Write(s, 0x00ECC430, 4, 2)).To(Succeed())
			Expect(s.sent.Bytes()).To(Equal([]byte{
				0xFF, 0x02, 0x00, 0xEC, 0xC4, 0x30, 0x04, 0x00, 0x00, 0x00, 0x02, 0xFE,
			}))
		})

		It("takes the width from a typed value", func() {
			s := newStream()

			Expect(client.WriteValue(s, 0x00ECC430, protocol.U32Value(2))).To(Succeed())
			Expect(s.sent.Bytes()).To(Equal([]byte{
				0xFF, 0x02, 0x00, 0xEC, 0xC4, 0x30, 0x04, 0x00, 0x00, 0x00, 0x02, 0xFE,
			}))
		})

		It("passes write errors through unchanged", func() {
			boom := errors.New("boom")

			err := client.Write(failingWriter{err: boom}, 0x10, 1, 1)
			Expect(err).To(Equal(boom))
		})
	})

	Describe("Watch() / Unwatch()", func() {
		It("sends the resolved width and sign tag", func() {
			s := newStream()

			Expect(client.Watch(s, 0x00ECC430, protocol.I32)).To(Succeed())
			Expect(s.sent.Bytes()).To(Equal([]byte{0xFF, 0x03, 0x00, 0xEC, 0xC4, 0x30, 0x04, 0x01, 0xFE}))
		})

		It("sends an UNWATCH", func() {
			s := newStream()

			Expect(client.Unwatch(s, 0x00ECC430)).To(Succeed())
			Expect(s.sent.Bytes()).To(Equal([]byte{0xFF, 0x05, 0x00, 0xEC, 0xC4, 0x30, 0xFE}))
		})
	})

	Describe("ViewWatches()", func() {
		It("returns a fresh table for every call", func() {
			s := newStream(
				0xFF, 0x04, 0x00, 0x00, 0x00, 0x01,
				0x00, 0xEC, 0xC4, 0x30, 0x04, 0x02, 0x00, 0x00, 0x00, 0x02,
				0xFE,
				0xFF, 0x04, 0x00, 0x00, 0x00, 0x00, 0xFE,
			)

			first, err := client.ViewWatches(s)
			Expect(err).To(Succeed())
			Expect(first).To(Equal(protocol.Watches{{
				Address:  0x00ECC430,
				Width:    4,
				Raw:      2,
				DataType: protocol.U32,
				SignTag:  protocol.TagUnsigned,
			}}))

			second, err := client.ViewWatches(s)
			Expect(err).To(Succeed())
			Expect(second).To(BeEmpty())
			Expect(first).To(HaveLen(1))

			Expect(s.sent.Bytes()).To(Equal([]byte{
				0xFF, 0x04, 0x00, 0x00, 0x00, 0x00, 0xFE,
				0xFF, 0x04, 0x00, 0x00, 0x00, 0x00, 0xFE,
			}))
		})

		It("returns no table on a framing error", func() {
			s := newStream(0xFE, 0x04, 0x00, 0x00, 0x00, 0x00, 0xFE)

			watches, err := client.ViewWatches(s)
			Expect(watches).To(BeNil())
			Expect(err).To(MatchError(&protocol.InvalidReturnByteError{Got: 0xFE, Expected: 0xFF}))
		})
	})
})
