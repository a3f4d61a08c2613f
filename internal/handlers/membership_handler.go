package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tapstack/venue-backend/internal/dto"
	"github.com/tapstack/venue-backend/internal/services"
)

type MembershipHandler struct {
	membershipService *services.MembershipService
}

func NewMembershipHandler(membershipService *services.MembershipService) *MembershipHandler {
	return &MembershipHandler{membershipService: membershipService}
}

func (h *MembershipHandler) AddMember(c *fiber.Ctx) error {
	orgID, _ := uuid.Parse(c.Params("id"))

	var req dto.AddMemberRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "user_id and role are required",
		})
	}

	membership, err := h.membershipService.AddMember(orgID, req.UserID, req.Role)
	if err != nil {
		return mapMembershipError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(membership)
}

func (h *MembershipHandler) ListMembers(c *fiber.Ctx) error {
	orgID, _ := uuid.Parse(c.Params("id"))

	members, err := h.membershipService.ListMembers(orgID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list members",
		})
	}

	return c.JSON(fiber.Map{"members": members})
}

func (h *MembershipHandler) UpdateRole(c *fiber.Ctx) error {
	orgID, _ := uuid.Parse(c.Params("id"))
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Membership not found",
		})
	}

	var req dto.UpdateMemberRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	membership, err := h.membershipService.UpdateRole(orgID, userID, req.Role)
	if err != nil {
		return mapMembershipError(c, err)
	}

	return c.JSON(membership)
}

func (h *MembershipHandler) RemoveMember(c *fiber.Ctx) error {
	orgID, _ := uuid.Parse(c.Params("id"))
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Membership not found",
		})
	}

	if err := h.membershipService.RemoveMember(orgID, userID); err != nil {
		return mapMembershipError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Member removed"})
}

func mapMembershipError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrAlreadyMember):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrOrgNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrOwnerRoleChange),
		errors.Is(err, services.ErrCannotRemoveOwner):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		slog.Error("unhandled membership error", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
}
