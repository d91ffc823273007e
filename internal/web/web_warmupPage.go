package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// warmupPage answers the platform's pre-warm request with an empty 200.
func (s *WebServer) warmupPage(c *gin.Context) {
	warmupsTotal.Inc()
	s.logger.Debug().Str("event", "warmup").Msg("instance warmup")
	c.Status(http.StatusOK)
}
