package web

import (
	"github.com/gin-gonic/gin"
	"github.com/go-while/go-pagefront/internal/config"
)

// homePage renders the landing page. Nothing from the request is consulted;
// the context comes from the runtime computed at startup.
func (s *WebServer) homePage(c *gin.Context) {
	data := HomePageData{
		TemplateData: s.getBaseTemplateData("Flappy Bird"),
		IsDev:        s.Runtime.IsDev,
		JSSuffix:     s.Runtime.JSSuffix,
	}
	s.renderTemplate(c, "home", data)
}

func (s *WebServer) getBaseTemplateData(title string) TemplateData {
	return TemplateData{
		Title:      title,
		AppVersion: config.AppVersion,
	}
}
