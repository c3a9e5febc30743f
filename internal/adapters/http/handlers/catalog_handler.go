package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/models"
	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/repositories"
	"github.com/joel-wlf/bbg-lager/internal/pkg/pagination"
	"github.com/joel-wlf/bbg-lager/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CatalogHandler handles box and group endpoints. Boxes and groups are plain
// location records, so the handler talks to the repositories directly.
type CatalogHandler struct {
	boxRepo   repositories.BoxRepository
	groupRepo repositories.GroupRepository
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(boxRepo repositories.BoxRepository, groupRepo repositories.GroupRepository) *CatalogHandler {
	return &CatalogHandler{
		boxRepo:   boxRepo,
		groupRepo: groupRepo,
	}
}

// LocationRequest represents create/update body for boxes and groups
type LocationRequest struct {
	Name  string `json:"name"`
	Shelf int    `json:"shelf"`
	Slot  int    `json:"slot"`
}

// listOptions extracts shared list query parameters
func listOptions(c *fiber.Ctx, params *pagination.Params) repositories.ListOptions {
	return repositories.ListOptions{
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
		Offset: params.Offset,
		Limit:  params.Limit,
	}
}

// ============================================================
// Boxes
// ============================================================

// ListBoxes lists boxes
// @Summary List boxes
// @Description List storage boxes with search, sort and pagination
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search in name"
// @Param sort query string false "Sort field, '-' prefix for descending"
// @Success 200 {object} response.Response
// @Router /boxes [get]
func (h *CatalogHandler) ListBoxes(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	boxes, total, err := h.boxRepo.List(c.Context(), listOptions(c, params))
	if err != nil {
		return response.InternalServerError(c, "Failed to list boxes")
	}

	return response.Success(c, "Boxes retrieved successfully",
		pagination.NewResponse(boxes, params, total))
}

// GetBox gets a box by ID
// @Summary Get box
// @Description Get a storage box by ID
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Box ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /boxes/{id} [get]
func (h *CatalogHandler) GetBox(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	box, err := h.boxRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Box not found")
		}
		return response.InternalServerError(c, "Failed to get box")
	}

	return response.Success(c, "Box retrieved successfully", fiber.Map{"box": box})
}

// CreateBox creates a new box
// @Summary Create box
// @Description Create a storage box
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body LocationRequest true "Box data"
// @Success 201 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /boxes [post]
func (h *CatalogHandler) CreateBox(c *fiber.Ctx) error {
	var req LocationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return response.UnprocessableEntity(c, "Bitte geben Sie einen Namen an.")
	}

	box := &models.Box{
		Name:  strings.TrimSpace(req.Name),
		Shelf: req.Shelf,
		Slot:  req.Slot,
	}
	if err := h.boxRepo.Create(c.Context(), box); err != nil {
		return response.InternalServerError(c, "Failed to create box")
	}

	return response.Created(c, "Box created successfully", fiber.Map{"box": box})
}

// UpdateBox updates a box
// @Summary Update box
// @Description Update a storage box
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Box ID"
// @Param body body LocationRequest true "Box data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /boxes/{id} [put]
func (h *CatalogHandler) UpdateBox(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	var req LocationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return response.UnprocessableEntity(c, "Bitte geben Sie einen Namen an.")
	}

	box, err := h.boxRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Box not found")
		}
		return response.InternalServerError(c, "Failed to get box")
	}

	box.Name = strings.TrimSpace(req.Name)
	box.Shelf = req.Shelf
	box.Slot = req.Slot

	if err := h.boxRepo.Update(c.Context(), box); err != nil {
		return response.InternalServerError(c, "Failed to update box")
	}

	return response.Success(c, "Box updated successfully", fiber.Map{"box": box})
}

// DeleteBox deletes a box
// @Summary Delete box
// @Description Delete a storage box
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Box ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /boxes/{id} [delete]
func (h *CatalogHandler) DeleteBox(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	if _, err := h.boxRepo.GetByID(c.Context(), uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Box not found")
		}
		return response.InternalServerError(c, "Failed to get box")
	}

	if err := h.boxRepo.Delete(c.Context(), uint(id)); err != nil {
		return response.InternalServerError(c, "Failed to delete box")
	}

	return response.Success(c, "Box deleted successfully", nil)
}

// ============================================================
// Groups
// ============================================================

// ListGroups lists groups
// @Summary List groups
// @Description List item groups with search, sort and pagination
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search in name"
// @Param sort query string false "Sort field, '-' prefix for descending"
// @Success 200 {object} response.Response
// @Router /groups [get]
func (h *CatalogHandler) ListGroups(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	groups, total, err := h.groupRepo.List(c.Context(), listOptions(c, params))
	if err != nil {
		return response.InternalServerError(c, "Failed to list groups")
	}

	return response.Success(c, "Groups retrieved successfully",
		pagination.NewResponse(groups, params, total))
}

// GetGroup gets a group by ID
// @Summary Get group
// @Description Get an item group by ID
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /groups/{id} [get]
func (h *CatalogHandler) GetGroup(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	group, err := h.groupRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Group not found")
		}
		return response.InternalServerError(c, "Failed to get group")
	}

	return response.Success(c, "Group retrieved successfully", fiber.Map{"group": group})
}

// CreateGroup creates a new group
// @Summary Create group
// @Description Create an item group
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body LocationRequest true "Group data"
// @Success 201 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /groups [post]
func (h *CatalogHandler) CreateGroup(c *fiber.Ctx) error {
	var req LocationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return response.UnprocessableEntity(c, "Bitte geben Sie einen Namen an.")
	}

	group := &models.Group{
		Name:  strings.TrimSpace(req.Name),
		Shelf: req.Shelf,
		Slot:  req.Slot,
	}
	if err := h.groupRepo.Create(c.Context(), group); err != nil {
		return response.InternalServerError(c, "Failed to create group")
	}

	return response.Created(c, "Group created successfully", fiber.Map{"group": group})
}

// UpdateGroup updates a group
// @Summary Update group
// @Description Update an item group
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param body body LocationRequest true "Group data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /groups/{id} [put]
func (h *CatalogHandler) UpdateGroup(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	var req LocationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return response.UnprocessableEntity(c, "Bitte geben Sie einen Namen an.")
	}

	group, err := h.groupRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Group not found")
		}
		return response.InternalServerError(c, "Failed to get group")
	}

	group.Name = strings.TrimSpace(req.Name)
	group.Shelf = req.Shelf
	group.Slot = req.Slot

	if err := h.groupRepo.Update(c.Context(), group); err != nil {
		return response.InternalServerError(c, "Failed to update group")
	}

	return response.Success(c, "Group updated successfully", fiber.Map{"group": group})
}

// DeleteGroup deletes a group
// @Summary Delete group
// @Description Delete an item group
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /groups/{id} [delete]
func (h *CatalogHandler) DeleteGroup(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	if _, err := h.groupRepo.GetByID(c.Context(), uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Group not found")
		}
		return response.InternalServerError(c, "Failed to get group")
	}

	if err := h.groupRepo.Delete(c.Context(), uint(id)); err != nil {
		return response.InternalServerError(c, "Failed to delete group")
	}

	return response.Success(c, "Group deleted successfully", nil)
}
