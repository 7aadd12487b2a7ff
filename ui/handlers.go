package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleIndex(c *gin.Context) {
	s.renderTemplate(c, "index.html", gin.H{
		"Title":          "SheetChart",
		"MaxUploadBytes": s.config.Upload.MaxFileSizeBytes(),
	})
}

func (s *Server) handleHelp(c *gin.Context) {
	s.renderTemplate(c, "help.html", gin.H{
		"Title":   "SheetChart help",
		"Content": s.helpHTML,
	})
}
