package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/luma/memwatch/client"
	"github.com/luma/memwatch/internal/fakepeer"
	"github.com/luma/memwatch/protocol"
)

var _ = Describe("bridge", func() {
	var (
		peer   *fakepeer.Server
		conn   *client.Conn
		router http.Handler
	)

	BeforeEach(func() {
		peer = fakepeer.New(fakepeer.Options{Addr: "127.0.0.1:0"})
		Expect(peer.Start(context.Background())).To(Succeed())
		Expect(peer.Memory().Restore([]byte(`{"0x00ECC430":"00000002"}`))).To(Succeed())

		conn = client.New(zap.NewNop())
		Expect(conn.Connect(context.Background(), peer.Addr().String())).To(Succeed())

		router = setupRouter(conn, false, zap.NewNop())
	})

	AfterEach(func() {
		Expect(conn.Disconnect()).To(Succeed())
		Expect(peer.Close()).To(Succeed())
	})

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		router.ServeHTTP(w, req)
		return w
	}

	It("answers pings", func() {
		w := serve(http.MethodGet, "/ping", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(Equal("pong"))
	})

	It("reads memory", func() {
		w := serve(http.MethodGet, "/memory/0x00ECC430?type=u32", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(gjson.Get(w.Body.String(), "value").Int()).To(Equal(int64(2)))
		Expect(gjson.Get(w.Body.String(), "address").String()).To(Equal("0x00ECC430"))
	})

	It("writes memory", func() {
		w := serve(http.MethodPut, "/memory/0x00ECC430", `{"type":"f32","value":1.5}`)
		Expect(w.Code).To(Equal(http.StatusNoContent))

		// WRITE has no reply, the peer applies it on its own time
		Eventually(func() float32 {
			return protocol.RawValue(protocol.F32, peer.Memory().Read(0x00ECC430, 4)).Float()
		}).Should(Equal(float32(1.5)))

		w = serve(http.MethodGet, "/memory/0x00ECC430?type=f32", "")
		Expect(gjson.Get(w.Body.String(), "value").Float()).To(Equal(1.5))
	})

	It("manages watches", func() {
		w := serve(http.MethodPut, "/watches/0x00ECC430?type=i32", "")
		Expect(w.Code).To(Equal(http.StatusNoContent))

		w = serve(http.MethodGet, "/watches", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(gjson.Get(w.Body.String(), "#").Int()).To(Equal(int64(1)))
		Expect(gjson.Get(w.Body.String(), "0.type").String()).To(Equal("i32"))

		w = serve(http.MethodDelete, "/watches/0x00ECC430", "")
		Expect(w.Code).To(Equal(http.StatusNoContent))

		w = serve(http.MethodGet, "/watches", "")
		Expect(w.Body.String()).To(Equal("[]"))
	})

	It("rejects bad input with 400", func() {
		Expect(serve(http.MethodGet, "/memory/nope", "").Code).To(Equal(http.StatusBadRequest))
		Expect(serve(http.MethodGet, "/memory/0x10?type=u64", "").Code).To(Equal(http.StatusBadRequest))
		Expect(serve(http.MethodPut, "/memory/0x10", `{"type":"u8"}`).Code).To(Equal(http.StatusBadRequest))
		Expect(serve(http.MethodPut, "/memory/0x10", `{"type":"u8","value":"256"}`).Code).To(Equal(http.StatusBadRequest))
		Expect(serve(http.MethodPut, "/memory/0x10", `not json`).Code).To(Equal(http.StatusBadRequest))
	})

	It("answers 503 once the peer connection is gone", func() {
		Expect(conn.Disconnect()).To(Succeed())

		w := serve(http.MethodGet, "/watches", "")
		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
	})
})
