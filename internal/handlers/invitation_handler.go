package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tapstack/venue-backend/internal/authctx"
	"github.com/tapstack/venue-backend/internal/dto"
	"github.com/tapstack/venue-backend/internal/services"
)

type InvitationHandler struct {
	invitationService *services.InvitationService
	userService       *services.UserService
}

func NewInvitationHandler(invitationService *services.InvitationService, userService *services.UserService) *InvitationHandler {
	return &InvitationHandler{invitationService: invitationService, userService: userService}
}

func (h *InvitationHandler) Invite(c *fiber.Ctx) error {
	orgID, _ := uuid.Parse(c.Params("id"))
	inviterID, err := authctx.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.InviteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	invitation, err := h.invitationService.Invite(orgID, req.Email, req.Role, inviterID)
	if err != nil {
		return mapInvitationError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(invitation)
}

// ListMine returns pending invitations addressed to the caller's email.
func (h *InvitationHandler) ListMine(c *fiber.Ctx) error {
	email, err := authctx.GetEmail(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	invitations, err := h.invitationService.ListPendingForEmail(email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list invitations",
		})
	}

	return c.JSON(fiber.Map{"invitations": invitations})
}

func (h *InvitationHandler) Accept(c *fiber.Ctx) error {
	invitationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Invitation not found",
		})
	}

	userID, err := authctx.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	user, err := h.userService.FindByID(userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	membership, err := h.invitationService.Accept(invitationID, user)
	if err != nil {
		return mapInvitationError(c, err)
	}

	return c.JSON(membership)
}

func (h *InvitationHandler) Decline(c *fiber.Ctx) error {
	invitationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Invitation not found",
		})
	}

	email, err := authctx.GetEmail(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	if err := h.invitationService.Decline(invitationID, email); err != nil {
		return mapInvitationError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Invitation declined"})
}

func (h *InvitationHandler) Revoke(c *fiber.Ctx) error {
	orgID, _ := uuid.Parse(c.Params("id"))
	invitationID, err := uuid.Parse(c.Params("invitationId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Invitation not found",
		})
	}

	if err := h.invitationService.Revoke(orgID, invitationID); err != nil {
		return mapInvitationError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Invitation revoked"})
}

func mapInvitationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvitationExpired):
		return c.Status(fiber.StatusGone).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvitationNotFound),
		errors.Is(err, services.ErrOrgNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvitationPending),
		errors.Is(err, services.ErrAlreadyMember):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvitationMismatch):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrOwnerRoleChange),
		errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		slog.Error("unhandled invitation error", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
}
