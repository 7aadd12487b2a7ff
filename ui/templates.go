package ui

import (
	"bytes"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const (
	templateGlob = "ui/templates/*.html"
	helpSource   = "ui/templates/help.md"
)

func (s *Server) loadTemplates() error {
	funcMap := template.FuncMap{
		"mb": func(n int64) int64 { return n / (1024 * 1024) },
	}
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(s.files, templateGlob)
	if err != nil {
		return err
	}
	s.templates = tmpl
	return nil
}

// loadHelp renders the embedded markdown help once at startup
func (s *Server) loadHelp() error {
	source, err := fs.ReadFile(s.files, helpSource)
	if err != nil {
		return err
	}
	s.helpHTML = template.HTML(renderMarkdown(source))
	return nil
}

func renderMarkdown(source []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse(source)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return markdown.Render(doc, renderer)
}

// renderTemplate executes a template into a buffer first so a failing
// template never produces a half-written page
func (s *Server) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.Error("Template error for %s: %v", templateName, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Template rendering failed"})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Writer.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		s.logger.Warn("Error writing template response: %v", err)
	}
}
