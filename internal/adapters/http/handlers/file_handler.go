package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/joel-wlf/bbg-lager/internal/pkg/files"
	"github.com/joel-wlf/bbg-lager/internal/pkg/imaging"
	"github.com/joel-wlf/bbg-lager/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// FileHandler serves stored files (item images, signatures) with optional
// on-the-fly thumbnailing via the thumb query parameter.
type FileHandler struct {
	store *files.Store
}

// NewFileHandler creates a new file handler
func NewFileHandler(store *files.Store) *FileHandler {
	return &FileHandler{store: store}
}

// allowed collections, anything else is a 404
var fileCollections = map[string]bool{
	"items":     true,
	"checkouts": true,
}

// Serve streams a stored file
// @Summary Serve file
// @Description Serve a stored file, optionally as a 100x100 thumbnail
// @Tags Files
// @Produce octet-stream
// @Param collection path string true "Collection name"
// @Param recordId path int true "Record ID"
// @Param filename path string true "File name"
// @Param thumb query string false "Thumbnail size, e.g. 100x100"
// @Success 200 {file} binary
// @Failure 404 {object} response.Response
// @Router /files/{collection}/{recordId}/{filename} [get]
func (h *FileHandler) Serve(c *fiber.Ctx) error {
	collection := c.Params("collection")
	if !fileCollections[collection] {
		return response.NotFound(c, "File not found")
	}

	recordID, err := strconv.ParseUint(c.Params("recordId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid record ID")
	}

	data, err := h.store.Read(collection, uint(recordID), c.Params("filename"))
	if err != nil {
		if errors.Is(err, files.ErrNotFound) {
			return response.NotFound(c, "File not found")
		}
		return response.InternalServerError(c, "Failed to read file")
	}

	if c.Query("thumb") != "" {
		thumb, err := imaging.Thumbnail(data)
		if err != nil {
			return response.InternalServerError(c, "Failed to create thumbnail")
		}
		c.Set("Content-Type", "image/jpeg")
		return c.Send(thumb)
	}

	c.Set("Content-Type", http.DetectContentType(data))
	return c.Send(data)
}
