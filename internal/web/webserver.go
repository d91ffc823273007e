// Package web provides the HTTP server and web interface for go-pagefront
package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-while/go-pagefront/internal/config"
	"github.com/rs/zerolog"
)

// WebServer serves the home page and the platform warmup hook.
type WebServer struct {
	Router    *gin.Engine
	Config    *config.WebConfig
	Runtime   *config.Runtime // immutable, computed once at startup
	StartTime time.Time

	templates  *templateSet
	reloader   *templateReloader // nil unless dev server with a template dir
	httpServer *http.Server
	logger     zerolog.Logger
}

// TemplateData represents common template data
type TemplateData struct {
	Title      string
	AppVersion string
}

// HomePageData is the context of the home template.
type HomePageData struct {
	TemplateData
	IsDev    bool
	JSSuffix string
}

// ErrorPageData is the context of the error template.
type ErrorPageData struct {
	TemplateData
	StatusCode int
	Message    string
}
