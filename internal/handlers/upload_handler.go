package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/anonto42/buddyscript/backend/internal/middleware"
	"github.com/anonto42/buddyscript/backend/internal/models"
	"github.com/anonto42/buddyscript/backend/internal/repositories"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// sniffLen covers the longest signature mimetype needs for the accepted formats.
const sniffLen = 3072

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// UploadHandler handles image uploads for post attachments
type UploadHandler struct {
	mediaRepository repositories.MediaRepository
	maxBytes        int64
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(mediaRepo repositories.MediaRepository, maxBytes int64) *UploadHandler {
	return &UploadHandler{mediaRepository: mediaRepo, maxBytes: maxBytes}
}

// RegisterUploadRoutes registers the authenticated upload route
func (h *UploadHandler) RegisterUploadRoutes(g *echo.Group) {
	g.POST("/upload", h.UploadImage)
}

// RegisterServeRoutes registers the public image route
func (h *UploadHandler) RegisterServeRoutes(e *echo.Echo) {
	e.GET("/uploads/:id", h.ServeImage)
}

// UploadImage stores the multipart "image" file after checking its real content type
func (h *UploadHandler) UploadImage(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No image file provided")
	}
	if file.Size > h.maxBytes {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Image must be at most %d bytes", h.maxBytes))
	}

	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Could not read image file")
	}
	defer src.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return echo.NewHTTPError(http.StatusBadRequest, "Could not read image file")
	}
	head = head[:n]

	mtype := mimetype.Detect(head)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid or corrupted image file")
	}

	upload := &models.MediaUpload{
		UploaderID:  middleware.UserIDFromContext(c),
		Filename:    uuid.NewString() + mtype.Extension(),
		ContentType: mtype.String(),
		Size:        file.Size,
	}
	content := io.MultiReader(bytes.NewReader(head), src)
	if err := h.mediaRepository.SaveImage(c.Request().Context(), upload, content); err != nil {
		return err
	}

	imageURL := fmt.Sprintf("%s://%s/uploads/%s", c.Scheme(), c.Request().Host, upload.ID.Hex())
	return c.JSON(http.StatusOK, echo.Map{"imageUrl": imageURL})
}

// ServeImage streams a stored image
func (h *UploadHandler) ServeImage(c echo.Context) error {
	upload, content, err := h.mediaRepository.OpenImage(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	defer content.Close()

	c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	return c.Stream(http.StatusOK, upload.ContentType, content)
}
