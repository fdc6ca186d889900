package receiver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/danmuck/rasterctl/internal/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const adminShutdownTimeout = 5 * time.Second

var startedAt = time.Now()

// AdminHandler builds the admin HTTP surface.
func (s *Service) AdminHandler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	observability.RegisterMetrics()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(s.log))
	r.Use(observability.RequestMetricsMiddleware("displayd"))
	if len(s.cfg.CorsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: s.cfg.CorsOrigins,
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	r.GET("/health", func(c *gin.Context) {
		w, h := s.framebuffer.Bounds()
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(startedAt).String(),
			"service": "displayd",
			"width":   w,
			"height":  h,
		})
	})
	r.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.Stats())
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/framebuffer.png", func(c *gin.Context) {
		c.Header("Content-Type", "image/png")
		c.Header("Cache-Control", "no-store")
		c.Status(http.StatusOK)
		if err := s.framebuffer.WritePNG(c.Writer); err != nil {
			s.log.Warn().Err(err).Msg("framebuffer snapshot failed")
		}
	})
	r.GET("/ws", s.handleWebSocket)
	return r
}

// ServeAdmin serves AdminHandler on ln until ctx is done.
func (s *Service) ServeAdmin(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.AdminHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	srv.RegisterOnShutdown(s.closeWebSockets)
	s.log.Info().Str("addr", ln.Addr().String()).Msg("admin listening")

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), adminShutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		case <-done:
		}
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
