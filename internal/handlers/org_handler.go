package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tapstack/venue-backend/internal/authctx"
	"github.com/tapstack/venue-backend/internal/dto"
	"github.com/tapstack/venue-backend/internal/models"
	"github.com/tapstack/venue-backend/internal/services"
)

type OrgHandler struct {
	orgService        *services.OrganizationService
	membershipService *services.MembershipService
}

func NewOrgHandler(orgService *services.OrganizationService, membershipService *services.MembershipService) *OrgHandler {
	return &OrgHandler{orgService: orgService, membershipService: membershipService}
}

func orgResponse(org *models.Organization) dto.OrganizationResponse {
	var settings models.OrganizationSettings
	_ = json.Unmarshal(org.Settings, &settings)
	return dto.OrganizationResponse{
		ID:              org.ID,
		Name:            org.Name,
		OwnerID:         org.OwnerID,
		SubscriptionID:  org.SubscriptionID,
		DefaultCurrency: settings.DefaultCurrency,
		CreatedAt:       org.CreatedAt,
	}
}

func (h *OrgHandler) Create(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateOrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	org, err := h.orgService.Create(userID, &req)
	if err != nil {
		return mapOrgError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(orgResponse(org))
}

// ListMine returns the caller's organizations via their memberships.
func (h *OrgHandler) ListMine(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	memberships, err := h.membershipService.ListForUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list organizations",
		})
	}

	return c.JSON(fiber.Map{"organizations": memberships})
}

func (h *OrgHandler) Get(c *fiber.Ctx) error {
	orgID, _ := uuid.Parse(c.Params("id"))
	org, err := h.orgService.FindByID(orgID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Organization not found",
		})
	}

	return c.JSON(orgResponse(org))
}

func (h *OrgHandler) Update(c *fiber.Ctx) error {
	orgID, _ := uuid.Parse(c.Params("id"))

	var req dto.UpdateOrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	org, err := h.orgService.Update(orgID, &req)
	if err != nil {
		return mapOrgError(c, err)
	}

	return c.JSON(orgResponse(org))
}

func (h *OrgHandler) Delete(c *fiber.Ctx) error {
	orgID, _ := uuid.Parse(c.Params("id"))

	if err := h.orgService.Delete(orgID); err != nil {
		return mapOrgError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Organization deleted"})
}

func (h *OrgHandler) TransferOwnership(c *fiber.Ctx) error {
	orgID, _ := uuid.Parse(c.Params("id"))
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.TransferOwnershipRequest
	if err := c.BodyParser(&req); err != nil || req.NewOwnerID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "new_owner_id is required",
		})
	}

	if err := h.orgService.TransferOwnership(orgID, userID, req.NewOwnerID); err != nil {
		return mapOrgError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Ownership transferred"})
}

func mapOrgError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrOrgNotFound),
		errors.Is(err, services.ErrNewOwnerNotMember):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrNoEligibleSub):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		slog.Error("unhandled organization error", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
}
