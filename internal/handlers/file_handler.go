package handlers

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"

	"github.com/tempdrop/tempdrop/internal/retention"
	"github.com/tempdrop/tempdrop/internal/services"
)

// FileHandler adapts the file service to HTTP. Handlers stay thin: parse
// the request, call the service, map sentinel errors to status codes.
type FileHandler struct {
	service *services.FileService
	logger  *log.Logger
}

func NewFileHandler(service *services.FileService, logger *log.Logger) *FileHandler {
	return &FileHandler{service: service, logger: logger}
}

// Upload handles multipart file uploads on POST /.
func (h *FileHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file provided"})
	}

	if fileHeader.Size > retention.MaxSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "File too large"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to open file"})
	}
	defer f.Close()

	result, err := h.service.Upload(c.Context(), services.UploadInput{
		Filename: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Size:     fileHeader.Size,
		Data:     f,
		Password: c.FormValue("password"),
	})
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(result)
}

// Download streams the file content back on GET /:id.
func (h *FileHandler) Download(c *fiber.Ctx) error {
	result, err := h.service.Download(c.Context(), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}

	c.Set(fiber.HeaderContentType, result.MimeType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", result.Filename))
	return c.Send(result.Data)
}

// Info returns file metadata on GET /:id/info.
func (h *FileHandler) Info(c *fiber.Ctx) error {
	info, err := h.service.Info(c.Context(), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(info)
}

// Delete removes a file on DELETE /:id. The password, when required,
// arrives in an optional JSON body.
func (h *FileHandler) Delete(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	// A missing or non-JSON body simply means no password was supplied.
	_ = c.BodyParser(&req)

	if err := h.service.Delete(c.Context(), c.Params("id"), req.Password); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *FileHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "File not found"})
	case errors.Is(err, services.ErrTooLarge):
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "File too large"})
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Password required"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Invalid password"})
	default:
		h.logger.Error("request failed", "path", c.Path(), "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
