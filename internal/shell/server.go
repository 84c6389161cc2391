// Package shell serves the SkyPulse app shell: the page, its script and
// stylesheet, the manifest and icons. It is the origin the offline cache
// manager pre-caches on install.
package shell

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed assets
var embedded embed.FS

// Assets returns the embedded shell files rooted at the shell's "/"
func Assets() fs.FS {
	sub, err := fs.Sub(embedded, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// Options configures the shell server
type Options struct {
	Version  string
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
	Assets   fs.FS
}

// Server wraps the gin engine serving the shell
type Server struct {
	router  *gin.Engine
	assets  fs.FS
	version string
	logger  *slog.Logger
}

func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Assets == nil {
		opts.Assets = Assets()
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(opts.Logger))

	s := &Server{
		router:  router,
		assets:  opts.Assets,
		version: opts.Version,
		logger:  opts.Logger,
	}
	s.setupRoutes(opts.Gatherer)
	return s
}

func (s *Server) setupRoutes(gatherer prometheus.Gatherer) {
	s.router.GET("/healthz", s.health)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	s.router.GET("/", s.file("index.html"))
	s.router.GET("/index.html", s.file("index.html"))
	s.router.GET("/style.css", s.file("style.css"))
	s.router.GET("/script.js", s.file("script.js"))
	s.router.GET("/manifest.json", s.file("manifest.json"))
	s.router.GET("/icons/:name", func(c *gin.Context) {
		s.serve(c, path.Join("icons", c.Param("name")))
	})
}

// Router returns the engine for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": s.version})
}

func (s *Server) file(name string) gin.HandlerFunc {
	return func(c *gin.Context) { s.serve(c, name) }
}

// serve writes an embedded file. Shell files have fixed names, so they
// must be revalidated on every load.
func (s *Server) serve(c *gin.Context, name string) {
	data, err := fs.ReadFile(s.assets, name)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, contentType, data)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting shell server", "addr", addr, "version", s.version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("shell server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down shell server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shell server shutdown: %w", err)
	}
	return nil
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
