package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"os/signal"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/luma/memwatch/client"
	"github.com/luma/memwatch/internal/render"
	"github.com/luma/memwatch/protocol"
)

const requestTimeout = 3 * time.Second

var (
	// The address to serve HTTP on, overrides MEMWATCH_BRIDGE_ADDR
	bridgeAddr string
)

func init() {
	flags := BridgeCmd.Flags()

	flags.StringVar(&bridgeAddr, "listen", "", "The address to serve HTTP on (default $MEMWATCH_BRIDGE_ADDR or 127.0.0.1:7362)")
}

var BridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Expose the peer's operations over HTTP",
	Long: `Expose the peer's operations over HTTP.

The bridge holds a single connection to the peer and runs one operation at a
time on it. If the connection breaks the bridge answers 503 until restarted.

Routes
	GET    /ping
	GET    /memory/:address?type=u32
	PUT    /memory/:address            {"type":"u32","value":"2"}
	GET    /watches
	PUT    /watches/:address?type=u32
	DELETE /watches/:address

`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx, signalStop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer signalStop()

		conf, log, err := setup(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		if bridgeAddr != "" {
			conf.BridgeAddr = bridgeAddr
		}

		conn, err := connect(ctx, conf, log)
		if err != nil {
			return err
		}

		defer func() {
			if err := conn.Disconnect(); err != nil {
				log.Warn("Failed to disconnect cleanly", zap.Error(err))
			}
		}()

		s := &http.Server{
			Addr:    conf.BridgeAddr,
			Handler: setupRouter(conn, conf.DebugHTTP, log),
		}

		// Initializing the server in a goroutine so that
		// it won't block the graceful shutdown handling below
		go func() {
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Http server errored", zap.Error(err))
				signalStop()
			}
		}()

		log.Info("Listening",
			zap.String("peer", conf.Addr),
			zap.String("addr", conf.BridgeAddr))

		<-ctx.Done()

		// Restore default behavior on the interrupt signal and notify user of shutdown.
		signalStop()
		log.Info("Shutting down gracefully, press Ctrl+C again to force")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.SetKeepAlivesEnabled(false)

		if err := s.Shutdown(shutdownCtx); err != nil {
			log.Error("Http server forced to shutdown", zap.Error(err))
		}

		log.Info("Exiting")
		return nil
	},
}

func setupRouter(conn *client.Conn, debugHTTP bool, log *zap.Logger) *gin.Engine {
	gin.DisableConsoleColor()
	if !debugHTTP {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(ginzap.GinzapWithConfig(log, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/ping"},
	}))

	// Logs all panic to error log
	//   - stack means whether output the stack info.
	r.Use(ginzap.RecoveryWithZap(log, true))

	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	b := &bridge{conn: conn}

	r.GET("/memory/:address", b.read)
	r.PUT("/memory/:address", b.write)
	r.GET("/watches", b.viewWatches)
	r.PUT("/watches/:address", b.watch)
	r.DELETE("/watches/:address", b.unwatch)

	return r
}

type bridge struct {
	conn *client.Conn
}

func (b *bridge) read(c *gin.Context) {
	address, dt, ok := bindTarget(c, c.Query("type"))
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	value, err := b.conn.Read(ctx, address, dt)
	if err != nil {
		abortWithPeerError(c, err)
		return
	}

	out, err := render.ValueJSON(address, value)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	c.Data(http.StatusOK, "application/json", out)
}

func (b *bridge) write(c *gin.Context) {
	body, err := ioutil.ReadAll(c.Request.Body)
	if err != nil || !gjson.ValidBytes(body) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be a JSON object"})
		return
	}

	address, dt, ok := bindTarget(c, gjson.GetBytes(body, "type").String())
	if !ok {
		return
	}

	raw := gjson.GetBytes(body, "value")
	if !raw.Exists() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value is required"})
		return
	}

	value, err := protocol.ParseValue(dt, raw.String())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := b.conn.Write(ctx, address, value); err != nil {
		abortWithPeerError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (b *bridge) viewWatches(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	watches, err := b.conn.ViewWatches(ctx)
	if err != nil {
		abortWithPeerError(c, err)
		return
	}

	out, err := render.WatchesJSON(watches)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	c.Data(http.StatusOK, "application/json", out)
}

func (b *bridge) watch(c *gin.Context) {
	address, dt, ok := bindTarget(c, c.Query("type"))
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := b.conn.Watch(ctx, address, dt); err != nil {
		abortWithPeerError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (b *bridge) unwatch(c *gin.Context) {
	address, err := render.ParseAddress(c.Param("address"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := b.conn.Unwatch(ctx, address); err != nil {
		abortWithPeerError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// bindTarget parses the :address param and a data type name, which defaults
// to u32. It writes a 400 and returns false on failure.
func bindTarget(c *gin.Context, typeName string) (uint32, protocol.DataType, bool) {
	address, err := render.ParseAddress(c.Param("address"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, protocol.U32, false
	}

	if typeName == "" {
		return address, protocol.U32, true
	}

	dt, err := protocol.ParseDataType(typeName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, protocol.U32, false
	}

	return address, dt, true
}

func abortWithPeerError(c *gin.Context, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, client.ErrNotConnected) {
		status = http.StatusServiceUnavailable
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": fmt.Sprintf("peer: %s", err)})
}
