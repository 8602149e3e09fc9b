// Package admin serves the handshake node's HTTP status surface.
package admin

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/voxboxor/voxboxor/internal/dump"
	"github.com/voxboxor/voxboxor/internal/observability"
	"github.com/voxboxor/voxboxor/internal/protocol"
	"github.com/voxboxor/voxboxor/internal/protocol/session"
)

const Version = "0.1.0"

// PeerSource reports the peers a handshake server currently holds.
type PeerSource interface {
	Peers() []session.Peer
}

type Server struct {
	Name     string
	Appeared time.Time

	codec  *protocol.Codec
	peers  PeerSource
	router *gin.Engine
	ready  func() bool
}

func New(name string, codec *protocol.Codec, peers PeerSource, corsOrigins []string) *Server {
	observability.RegisterMetrics()
	if codec == nil {
		codec = protocol.Default()
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware(name))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(corsOrigins),
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		Name:     name,
		Appeared: time.Now(),
		codec:    codec,
		peers:    peers,
		router:   r,
		ready:    func() bool { return true },
	}
	s.registerRoutes()
	return s
}

// SetReady replaces the readiness probe.
func (s *Server) SetReady(fn func() bool) { s.ready = fn }

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Appeared).String(),
			"service": s.Name,
			"version": Version,
		})
	})

	s.router.GET("/ready", func(c *gin.Context) {
		ready := s.ready()
		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"ready": ready, "service": s.Name})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/peers", func(c *gin.Context) {
		peers := []session.Peer{}
		if s.peers != nil {
			peers = s.peers.Peers()
		}
		c.JSON(http.StatusOK, gin.H{"count": len(peers), "peers": peers})
	})

	s.router.GET("/layouts", func(c *gin.Context) {
		layouts, err := dump.Layouts(s.codec)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"layouts": layouts})
	})
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("service", s.Name).Msg("admin.ListenAndServe")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
