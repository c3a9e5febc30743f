package handlers

import (
	"encoding/base64"
	"errors"
	"strconv"
	"time"

	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/models"
	"github.com/joel-wlf/bbg-lager/internal/adapters/persistence/repositories"
	"github.com/joel-wlf/bbg-lager/internal/core/domain"
	"github.com/joel-wlf/bbg-lager/internal/core/services"
	"github.com/joel-wlf/bbg-lager/internal/pkg/pagination"
	"github.com/joel-wlf/bbg-lager/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler handles checkout lifecycle endpoints
type CheckoutHandler struct {
	checkoutService *services.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// CreateCheckoutRequest represents create checkout request body
type CreateCheckoutRequest struct {
	Purpose      string    `json:"purpose"`
	CheckedOutAt time.Time `json:"checked_out_at"`
	Items        []uint    `json:"items"`
	Notes        string    `json:"notes,omitempty"`
}

// ReturnItemEntry represents one item's review state in a return submission
type ReturnItemEntry struct {
	ItemID    uint   `json:"item_id"`
	Confirmed bool   `json:"confirmed"`
	Problem   string `json:"problem,omitempty"`
}

// SubmitReturnRequest represents a return submission body. The signature is a
// base64 encoded PNG.
type SubmitReturnRequest struct {
	Items     []ReturnItemEntry `json:"items"`
	Signature string            `json:"signature"`
}

// Create creates a new checkout
// @Summary Create checkout
// @Description Create a checkout with a fixed item set
// @Tags Checkouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateCheckoutRequest true "Checkout data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /checkouts [post]
func (h *CheckoutHandler) Create(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CreateCheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.CreateCheckoutInput{
		Purpose:      req.Purpose,
		CheckedOutAt: req.CheckedOutAt,
		ItemIDs:      req.Items,
		Notes:        req.Notes,
	}

	checkout, err := h.checkoutService.Create(c.Context(), input, userID)
	if err != nil {
		return checkoutError(c, err, "Failed to create checkout")
	}

	return response.Created(c, "Checkout created successfully", checkoutPayload(checkout))
}

// List lists checkouts
// @Summary List checkouts
// @Description List checkouts filtered by status with search and pagination
// @Tags Checkouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter: open or returned"
// @Param search query string false "Search in purpose"
// @Param sort query string false "Sort field, '-' prefix for descending"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /checkouts [get]
func (h *CheckoutHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	opts := repositories.ListOptions{
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
		Offset: params.Offset,
		Limit:  params.Limit,
	}

	checkouts, total, err := h.checkoutService.List(c.Context(), c.Query("status"), opts)
	if err != nil {
		return response.InternalServerError(c, "Failed to list checkouts")
	}

	payload := make([]fiber.Map, 0, len(checkouts))
	for _, checkout := range checkouts {
		payload = append(payload, checkoutPayload(checkout))
	}

	return response.Success(c, "Checkouts retrieved successfully",
		pagination.NewResponse(payload, params, total))
}

// Get gets a checkout by ID
// @Summary Get checkout
// @Description Get a checkout with its items, problems and signature reference
// @Tags Checkouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Checkout ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /checkouts/{id} [get]
func (h *CheckoutHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	checkout, err := h.checkoutService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrCheckoutNotFound) {
			return response.NotFound(c, "Checkout not found")
		}
		return response.InternalServerError(c, "Failed to get checkout")
	}

	return response.Success(c, "Checkout retrieved successfully", checkoutPayload(checkout))
}

// SubmitReturn completes a checkout's return
// @Summary Submit return
// @Description Reconcile returned items and close the checkout with a signature
// @Tags Checkouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Checkout ID"
// @Param body body SubmitReturnRequest true "Return review"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /checkouts/{id}/return [post]
func (h *CheckoutHandler) SubmitReturn(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	var req SubmitReturnRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	_, review, err := h.checkoutService.BeginReturn(c.Context(), uint(id))
	if err != nil {
		return checkoutError(c, err, "Failed to load checkout")
	}

	for _, entry := range req.Items {
		if !entry.Confirmed {
			review.ToggleItem(entry.ItemID)
			review.SetProblem(entry.ItemID, entry.Problem)
		}
	}

	if req.Signature != "" {
		signature, err := base64.StdEncoding.DecodeString(req.Signature)
		if err != nil {
			return response.BadRequest(c, "Invalid signature encoding")
		}
		review.CaptureSignature(signature)
	}

	checkout, err := h.checkoutService.SubmitReturn(c.Context(), uint(id), review)
	if err != nil {
		return checkoutError(c, err, "Failed to submit return")
	}

	return response.Success(c, "Return completed successfully", checkoutPayload(checkout))
}

// checkoutPayload decorates a checkout with its derived status
func checkoutPayload(checkout *models.Checkout) fiber.Map {
	return fiber.Map{
		"checkout": checkout,
		"status":   checkout.Status(),
	}
}

// checkoutError maps checkout domain errors to HTTP responses
func checkoutError(c *fiber.Ctx, err error, fallback string) error {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return response.UnprocessableEntity(c, validationErr.Message)
	case errors.Is(err, domain.ErrCheckoutNotFound):
		return response.NotFound(c, "Checkout not found")
	case errors.Is(err, domain.ErrItemNotFound):
		return response.NotFound(c, "One or more items not found")
	case errors.Is(err, domain.ErrAlreadyReturned):
		return response.Conflict(c, "Checkout is already returned")
	default:
		return response.InternalServerError(c, fallback)
	}
}
