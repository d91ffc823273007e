package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/go-while/go-pagefront/internal/config"
	xlog "github.com/go-while/go-pagefront/internal/log"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const requestIDHeader = "X-Request-ID"

// NewServer creates a new web server instance.
// Templates are parsed here so a broken template set fails at startup.
func NewServer(webconfig *config.WebConfig, rt *config.Runtime) (*WebServer, error) {
	if rt.IsDev {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	templates, err := newTemplateSet(webconfig.TemplateDir)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	if err := router.SetTrustedProxies(webconfig.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	server := &WebServer{
		Router:    router,
		Config:    webconfig,
		Runtime:   rt,
		templates: templates,
		logger:    xlog.WithComponent("web"),
	}
	if rt.IsDev && webconfig.StaticDir == "" {
		if files, err := ListEmbeddedFiles(); err == nil {
			server.logger.Debug().Str("event", "static.embedded").Strs("files", files).Msg("serving embedded static files")
		}
	}
	if rt.IsDev && webconfig.TemplateDir != "" {
		server.reloader = newTemplateReloader(webconfig.TemplateDir, templates, server.logger)
	}

	router.Use(gin.Recovery(), server.RequestIDMiddleware())
	switch webconfig.AccessLog {
	case config.AccessLogApache:
		router.Use(server.ApacheLogFormat())
	case config.AccessLogJSON:
		router.Use(server.RequestLogger())
	}

	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:              ":" + strconv.Itoa(webconfig.ListenPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server, nil
}

// securityMiddleware sets the security headers for user facing pages.
func (s *WebServer) securityMiddleware() gin.HandlerFunc {
	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      s.Runtime.IsDev,
	}

	// Only add SSL-specific headers if SSL is enabled on the application itself
	// (not when running behind a reverse proxy like nginx with SSL)
	if s.Config.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}
	return secure.New(secureConfig)
}

// setupRoutes builds the route table.
func (s *WebServer) setupRoutes() {
	// The platform calls warmup over plain HTTP; it must never be redirected.
	s.Router.GET("/_ah/warmup", s.warmupPage)

	if s.Config.Metrics {
		s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	pages := s.Router.Group("/", s.securityMiddleware())
	if s.Config.StaticDir != "" {
		pages.Static("/static", s.Config.StaticDir)
	} else {
		pages.GET("/static/*filepath", EmbeddedStaticHandler("/static"))
	}
	pages.GET("/", s.homePage)
}

// Start starts the web server with SSL support if configured.
// It returns nil once the server was shut down.
func (s *WebServer) Start() error {
	if s.StartTime.IsZero() {
		s.StartTime = time.Now()
	}
	var err error
	if s.Config.SSL {
		if s.Config.CertFile == "" || s.Config.KeyFile == "" {
			return errors.New("SSL enabled but cert_file or key_file not specified in config")
		}
		s.logger.Info().Str("event", "server.start").Str("addr", s.httpServer.Addr).Msg("starting HTTPS server")
		err = s.httpServer.ListenAndServeTLS(s.Config.CertFile, s.Config.KeyFile)
	} else {
		s.logger.Info().Str("event", "server.start").Str("addr", s.httpServer.Addr).Msg("starting HTTP server")
		err = s.httpServer.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server, waiting for in-flight requests until ctx expires.
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.logger.Info().Str("event", "server.shutdown").Dur("uptime", s.Uptime()).Msg("shutting down web server")
	return s.httpServer.Shutdown(ctx)
}

// Uptime reports how long the server has been listening, zero before Start.
func (s *WebServer) Uptime() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	return time.Since(s.StartTime)
}

// Run serves until ctx is cancelled or the listener fails.
// In development mode with a template dir it also runs the template reloader.
func (s *WebServer) Run(ctx context.Context) error {
	// set before the goroutines start; Shutdown reads it for the uptime log
	s.StartTime = time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(s.Start)
	if s.reloader != nil {
		g.Go(func() error { return s.reloader.Run(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.DefaultShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// RequestIDMiddleware tags every request with an id, reusing the caller's if present.
func (s *WebServer) RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequestLogger writes one structured log line per request.
func (s *WebServer) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info().
			Str("event", "request.handled").
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Int("bytes", c.Writer.Size()).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

func (s *WebServer) ApacheLogFormat() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf(`%s - - [%s] "%s %s %s" %d %d "%s" "%s"`+"\n",
			param.ClientIP,
			param.TimeStamp.Format("02/Jan/2006:15:04:05 -0700"),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.BodySize,
			param.Request.Referer(),
			param.Request.UserAgent(),
		)
	})
}
