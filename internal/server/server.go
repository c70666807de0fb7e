// Package server exposes the portfolio data, the translation tables and the
// chat relay over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iburimskiy/particle-portfolio/internal/chat"
	"github.com/iburimskiy/particle-portfolio/internal/i18n"
	"github.com/iburimskiy/particle-portfolio/internal/profile"
)

const shutdownGrace = 5 * time.Second

type Server struct {
	profiles *profile.Store
	table    *i18n.Table
	relay    chat.Responder
	logger   *zap.Logger
	engine   *gin.Engine
}

// New wires the routes. relay may be nil, in which case /api/chat answers
// 503.
func New(profiles *profile.Store, table *i18n.Table, relay chat.Responder, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if table == nil {
		table = i18n.Default()
	}
	s := &Server{profiles: profiles, table: table, relay: relay, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/locales", s.handleLocales)
	api.GET("/profile", s.handleProfile)
	api.GET("/i18n/:locale", s.handleStrings)
	api.GET("/i18n/:locale/:key", s.handleLookup)
	api.POST("/chat", s.handleChat)

	s.engine = r
	return s
}

// Handler returns the gin engine.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("http server stopped")
	return nil
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)

		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("id", id),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if c.Writer.Status() >= 500 {
			logger.Warn("request", fields...)
			return
		}
		logger.Debug("request", fields...)
	}
}

// lang picks the locale from ?lang=, then Accept-Language, then the default.
func (s *Server) lang(c *gin.Context) string {
	if l := c.Query("lang"); l != "" {
		return s.table.Resolve(l)
	}
	for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		base, _, _ := strings.Cut(tag, "-")
		if s.table.Has(strings.ToLower(base)) {
			return strings.ToLower(base)
		}
	}
	return s.table.DefaultLocale()
}

func (s *Server) handleLocales(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"default": s.table.DefaultLocale(),
		"locales": s.table.Locales(),
	})
}

func (s *Server) handleProfile(c *gin.Context) {
	locale := s.lang(c)
	p := s.profiles.Get().Localized(locale)
	c.Header("Content-Language", locale)
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleStrings(c *gin.Context) {
	code := c.Param("locale")
	if !s.table.Has(code) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown locale " + code})
		return
	}
	out := map[string]any{}
	for _, k := range s.table.Keys(code) {
		out[k] = s.table.Lookup(code, k)
	}
	for k, v := range s.table.Lists(code) {
		out[k] = v
	}
	c.JSON(http.StatusOK, gin.H{
		"locale":  s.table.Locale(code),
		"strings": out,
	})
}

// handleLookup resolves one key. Unknown locales and keys fall back like the
// table does, so this never 404s.
func (s *Server) handleLookup(c *gin.Context) {
	code, key := c.Param("locale"), c.Param("key")
	if list := s.table.List(code, key); list != nil {
		c.JSON(http.StatusOK, gin.H{"key": key, "value": list})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": s.table.Lookup(code, key)})
}

type chatRequest struct {
	Lang    string         `json:"lang"`
	History []chat.Message `json:"history"`
	Message string         `json:"message" binding:"required"`
}

func (s *Server) handleChat(c *gin.Context) {
	if s.relay == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "chat relay not configured"})
		return
	}
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	text := strings.TrimSpace(req.Message)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": chat.ErrEmptyMessage.Error()})
		return
	}

	locale := s.table.Resolve(req.Lang)
	reply := s.relay.Reply(c.Request.Context(), locale, req.History, text)
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
