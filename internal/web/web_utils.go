package web

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
)

const contentTypeHTML = "text/html; charset=utf-8"

// renderTemplate renders into a buffer first so a failing template never
// leaves a partial page on the wire.
func (s *WebServer) renderTemplate(c *gin.Context, templateName string, data any) {
	var buf bytes.Buffer
	if err := s.templates.Execute(&buf, templateName, data); err != nil {
		pageRendersTotal.WithLabelValues(templateName, "error").Inc()
		s.logger.Error().Err(err).
			Str("event", "render.failed").
			Str("template", templateName).
			Str("request_id", c.GetString("request_id")).
			Msg("template error")
		s.renderError(c, http.StatusInternalServerError)
		return
	}
	pageRendersTotal.WithLabelValues(templateName, "ok").Inc()
	c.Data(http.StatusOK, contentTypeHTML, buf.Bytes())
}

// renderError renders the error page, falling back to plain text when the
// error template itself cannot be rendered.
func (s *WebServer) renderError(c *gin.Context, statusCode int) {
	data := ErrorPageData{
		TemplateData: s.getBaseTemplateData("Error"),
		StatusCode:   statusCode,
		Message:      http.StatusText(statusCode),
	}
	var buf bytes.Buffer
	if err := s.templates.Execute(&buf, "error", data); err != nil {
		c.String(statusCode, http.StatusText(statusCode))
		return
	}
	c.Data(statusCode, contentTypeHTML, buf.Bytes())
}
