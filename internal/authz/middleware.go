package authz

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tapstack/venue-backend/internal/authctx"
	"github.com/tapstack/venue-backend/internal/dto"
	"github.com/tapstack/venue-backend/internal/models"
)

// RequireOrgRole guards org-scoped routes. It parses the :id path param,
// resolves the caller's membership, and stores it in Locals("membership")
// for the handler.
func RequireOrgRole(authorizer *Authorizer, op Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := authctx.GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		orgID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Organization not found",
			})
		}

		membership, err := authorizer.Authorize(userID, orgID, op)
		if err != nil {
			var forbidden *ForbiddenError
			switch {
			case errors.Is(err, ErrNotMember):
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
					Error: true, Message: ErrNotMember.Error(),
				})
			case errors.As(err, &forbidden):
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
					Error: true, Message: forbidden.Error(),
				})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
					Error: true, Message: "Internal server error",
				})
			}
		}

		c.Locals("membership", membership)
		return c.Next()
	}
}

// CallerMembership returns the membership stored by RequireOrgRole.
func CallerMembership(c *fiber.Ctx) *models.Membership {
	m, _ := c.Locals("membership").(*models.Membership)
	return m
}
