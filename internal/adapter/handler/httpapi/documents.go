package httpapi

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/document"
)

const maxDocumentSize = 10 * 1024 * 1024

type extractDocumentResponse struct {
	Content  string            `json:"content"`
	Metadata document.Metadata `json:"metadata"`
}

// extractDocument pulls the text out of an uploaded .docx so goal and
// subtask descriptions can be prefilled from course material.
func (s *Server) extractDocument(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "multipart field 'file' is required")
	}
	if fileHeader.Size > maxDocumentSize {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "document exceeds the 10MB limit")
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".docx") {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "only .docx documents are supported")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	content, meta := document.Extract(fileHeader.Filename, data)
	if !meta.ExtractionSuccess {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(extractDocumentResponse{Metadata: meta})
	}
	return c.JSON(extractDocumentResponse{Content: content, Metadata: meta})
}
