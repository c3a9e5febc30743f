package handlers

import (
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

// RequestHandler handles public request intake and staff-side request endpoints
type RequestHandler struct {
	requestService *services.RequestService
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(requestService *services.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// SubmitRequestBody represents the public intake body
type SubmitRequestBody struct {
	RequesterName string    `json:"requester_name"`
	Purpose       string    `json:"purpose"`
	NeededFrom    time.Time `json:"needed_from"`
	Items         []uint    `json:"items"`
}

// Submit handles the public request intake
// @Summary Submit request
// @Description Submit a public item request, no authentication required
// @Tags Requests
// @Accept json
// @Produce json
// @Param body body SubmitRequestBody true "Request data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /requests [post]
func (h *RequestHandler) Submit(c *fiber.Ctx) error {
	var req SubmitRequestBody
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.SubmitRequestInput{
		RequesterName: req.RequesterName,
		Purpose:       req.Purpose,
		NeededFrom:    req.NeededFrom,
		ItemIDs:       req.Items,
	}

	request, err := h.requestService.Submit(c.Context(), input)
	if err != nil {
		return requestError(c, err, "Failed to submit request")
	}

	return response.Created(c, "Request submitted successfully", h.payload(request))
}

// List lists requests
// @Summary List requests
// @Description List requests with search and pagination
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search in requester name and purpose"
// @Param sort query string false "Sort field, '-' prefix for descending"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /requests [get]
func (h *RequestHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	opts := repositories.ListOptions{
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
		Offset: params.Offset,
		Limit:  params.Limit,
	}

	requests, total, err := h.requestService.List(c.Context(), opts)
	if err != nil {
		return response.InternalServerError(c, "Failed to list requests")
	}

	payload := make([]fiber.Map, 0, len(requests))
	for _, request := range requests {
		payload = append(payload, h.payload(request))
	}

	return response.Success(c, "Requests retrieved successfully",
		pagination.NewResponse(payload, params, total))
}

// Get gets a request by ID
// @Summary Get request
// @Description Get a request with its items and age status
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /requests/{id} [get]
func (h *RequestHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	request, err := h.requestService.GetByID(c.Context(), uint(id))
	if err != nil {
		return requestError(c, err, "Failed to get request")
	}

	return response.Success(c, "Request retrieved successfully", h.payload(request))
}

// Convert converts a request into a checkout
// @Summary Convert request
// @Description Convert a request into a checkout owned by the acting staff member
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /requests/{id}/convert [post]
func (h *RequestHandler) Convert(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	checkout, err := h.requestService.Convert(c.Context(), uint(id), userID)
	if err != nil {
		return requestError(c, err, "Failed to convert request")
	}

	return response.Created(c, "Request converted successfully", checkoutPayload(checkout))
}

// payload decorates a request with its derived age status
func (h *RequestHandler) payload(request *models.Request) fiber.Map {
	return fiber.Map{
		"request": request,
		"status":  h.requestService.Status(request),
	}
}

// requestError maps request domain errors to HTTP responses
func requestError(c *fiber.Ctx, err error, fallback string) error {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return response.UnprocessableEntity(c, validationErr.Message)
	case errors.Is(err, domain.ErrRequestNotFound):
		return response.NotFound(c, "Request not found")
	case errors.Is(err, domain.ErrItemNotFound):
		return response.NotFound(c, "One or more items not found")
	case errors.Is(err, domain.ErrRequestAlreadyConverted):
		return response.Conflict(c, "Request is already converted")
	default:
		return response.InternalServerError(c, fallback)
	}
}
