package ui

import (
	"errors"
	"net/http"

	apperrors "sheetchart/internal/errors"
	"sheetchart/internal/ingest"

	"github.com/gin-gonic/gin"
)

// multipart framing allowance on top of the file size limit
const uploadOverheadBytes = 1 << 20

// handleUpload replaces the session's tables with those of the uploaded file
func (s *Server) handleUpload(c *gin.Context) {
	sess := s.mustSession(c)
	if sess == nil {
		return
	}

	limit := s.config.Upload.MaxFileSizeBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+uploadOverheadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.respondError(c, apperrors.UploadTooLarge(limit))
			return
		}
		s.respondError(c, apperrors.InvalidInput(`multipart field "file" is required`))
		return
	}
	if fileHeader.Size > limit {
		s.respondError(c, apperrors.UploadTooLarge(limit))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		s.respondError(c, apperrors.Wrapf(err, "failed to open uploaded file %s", fileHeader.Filename))
		return
	}
	defer file.Close()

	result, err := sess.Upload(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		if apperrors.GetCode(err) == apperrors.CodeUnrecognizedFileType && !s.config.Upload.RejectUnknownTypes {
			s.logger.Info("ignoring %s: unrecognized file type", fileHeader.Filename)
			c.Status(http.StatusNoContent)
			return
		}
		s.respondError(c, err)
		return
	}

	notices := result.Notices
	if notices == nil {
		notices = []ingest.Notice{}
	}
	c.JSON(http.StatusOK, gin.H{
		"file":    result.FileName,
		"kind":    result.Kind,
		"sheets":  sess.Sheets(),
		"notices": notices,
	})
}

func (s *Server) handleSheets(c *gin.Context) {
	sess := s.mustSession(c)
	if sess == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"file":   sess.FileName(),
		"sheets": sess.Sheets(),
	})
}

// handleChart returns categories and series for a sheet; ?x= picks the X axis
func (s *Server) handleChart(c *gin.Context) {
	sess := s.mustSession(c)
	if sess == nil {
		return
	}
	chart, err := sess.Chart(c.Param("name"), c.Query("x"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chart)
}

func (s *Server) handleTable(c *gin.Context) {
	sess := s.mustSession(c)
	if sess == nil {
		return
	}
	view, err := sess.Table(c.Param("name"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
