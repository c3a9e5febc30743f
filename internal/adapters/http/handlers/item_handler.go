package handlers

import (
	"errors"
	"io"
	"strconv"

	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/models"
	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/repositories"
	"github.com/joel-wlf/bbg-lager/internal/core/domain"
	"github.com/joel-wlf/bbg-lager/internal/core/services"
	"github.com/joel-wlf/bbg-lager/internal/pkg/files"
	"github.com/joel-wlf/bbg-lager/internal/pkg/pagination"
	"github.com/joel-wlf/bbg-lager/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// maxImageSize limits item image uploads to 8 MiB.
const maxImageSize = 8 << 20

// ItemHandler handles catalog item endpoints
type ItemHandler struct {
	itemService *services.ItemService
}

// NewItemHandler creates a new item handler
func NewItemHandler(itemService *services.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// ItemRequest represents create/update item request body
type ItemRequest struct {
	Name          string   `json:"name"`
	Stock         int      `json:"stock"`
	Organisations []string `json:"organisations"`
	Notes         string   `json:"notes,omitempty"`
	GroupID       *uint    `json:"group_id,omitempty"`
}

// Create creates a new item
// @Summary Create item
// @Description Create a catalog item
// @Tags Items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ItemRequest true "Item data"
// @Success 201 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var req ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	item, err := h.itemService.Create(c.Context(), h.input(&req))
	if err != nil {
		return itemError(c, err, "Failed to create item")
	}

	return response.Created(c, "Item created successfully", itemPayload(item))
}

// Update updates an item
// @Summary Update item
// @Description Update a catalog item
// @Tags Items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Param body body ItemRequest true "Item data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	var req ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	item, err := h.itemService.Update(c.Context(), uint(id), h.input(&req))
	if err != nil {
		return itemError(c, err, "Failed to update item")
	}

	return response.Success(c, "Item updated successfully", itemPayload(item))
}

// UploadImage stores an item image
// @Summary Upload item image
// @Description Upload a JPEG or PNG image for an item
// @Tags Items
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Param image formData file true "Image file"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /items/{id}/image [post]
func (h *ItemHandler) UploadImage(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return response.BadRequest(c, "Image file is required")
	}
	if fileHeader.Size > maxImageSize {
		return response.UnprocessableEntity(c, "Das Bild darf höchstens 8 MB groß sein.")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, "Failed to read image file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return response.BadRequest(c, "Failed to read image file")
	}

	item, err := h.itemService.SetImage(c.Context(), uint(id), fileHeader.Filename, data)
	if err != nil {
		return itemError(c, err, "Failed to store image")
	}

	return response.Success(c, "Image uploaded successfully", itemPayload(item))
}

// Get gets an item by ID
// @Summary Get item
// @Description Get a catalog item by ID
// @Tags Items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /items/{id} [get]
func (h *ItemHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	item, err := h.itemService.GetByID(c.Context(), uint(id))
	if err != nil {
		return itemError(c, err, "Failed to get item")
	}

	return response.Success(c, "Item retrieved successfully", itemPayload(item))
}

// Delete deletes an item
// @Summary Delete item
// @Description Delete a catalog item
// @Tags Items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	if err := h.itemService.Delete(c.Context(), uint(id)); err != nil {
		return itemError(c, err, "Failed to delete item")
	}

	return response.Success(c, "Item deleted successfully", nil)
}

// List lists items
// @Summary List items
// @Description List catalog items with search, sort and pagination
// @Tags Items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search in name"
// @Param sort query string false "Sort field, '-' prefix for descending"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	opts := repositories.ListOptions{
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
		Offset: params.Offset,
		Limit:  params.Limit,
	}

	items, total, err := h.itemService.List(c.Context(), opts)
	if err != nil {
		return response.InternalServerError(c, "Failed to list items")
	}

	payload := make([]fiber.Map, 0, len(items))
	for _, item := range items {
		payload = append(payload, itemPayload(item))
	}

	return response.Success(c, "Items retrieved successfully",
		pagination.NewResponse(payload, params, total))
}

// input maps a request body to service input
func (h *ItemHandler) input(req *ItemRequest) *services.ItemInput {
	return &services.ItemInput{
		Name:          req.Name,
		Stock:         req.Stock,
		Organisations: req.Organisations,
		Notes:         req.Notes,
		GroupID:       req.GroupID,
	}
}

// itemPayload decorates an item with its image URLs
func itemPayload(item *models.Item) fiber.Map {
	payload := fiber.Map{"item": item}
	if item.Image != "" {
		payload["image_url"] = files.URL("items", item.ID, item.Image, false)
		payload["thumb_url"] = files.URL("items", item.ID, item.Image, true)
	}
	return payload
}

// itemError maps item domain errors to HTTP responses
func itemError(c *fiber.Ctx, err error, fallback string) error {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return response.UnprocessableEntity(c, validationErr.Message)
	case errors.Is(err, domain.ErrItemNotFound):
		return response.NotFound(c, "Item not found")
	case errors.Is(err, domain.ErrGroupNotFound):
		return response.NotFound(c, "Group not found")
	default:
		return response.InternalServerError(c, fallback)
	}
}
