package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tapstack/venue-backend/internal/dto"
	"github.com/tapstack/venue-backend/internal/services"
)

type InventoryHandler struct {
	inventoryService *services.InventoryService
}

func NewInventoryHandler(inventoryService *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

func (h *InventoryHandler) CreateCategory(c *fiber.Ctx) error {
	orgID, _ := uuid.Parse(c.Params("id"))

	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	category, err := h.inventoryService.CreateCategory(orgID, &req)
	if err != nil {
		return mapInventoryError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(category)
}

func (h *InventoryHandler) ListCategories(c *fiber.Ctx) error {
	orgID, _ := uuid.Parse(c.Params("id"))

	categories, err := h.inventoryService.ListCategories(orgID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list categories",
		})
	}

	return c.JSON(fiber.Map{"categories": categories})
}

func (h *InventoryHandler) UpdateCategory(c *fiber.Ctx) error {
	orgID, _ := uuid.Parse(c.Params("id"))
	categoryID, err := uuid.Parse(c.Params("categoryId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Category not found",
		})
	}

	var req dto.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	category, err := h.inventoryService.UpdateCategory(orgID, categoryID, &req)
	if err != nil {
		return mapInventoryError(c, err)
	}

	return c.JSON(category)
}

func (h *InventoryHandler) DeleteCategory(c *fiber.Ctx) error {
	orgID, _ := uuid.Parse(c.Params("id"))
	categoryID, err := uuid.Parse(c.Params("categoryId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Category not found",
		})
	}

	if err := h.inventoryService.DeleteCategory(orgID, categoryID); err != nil {
		return mapInventoryError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Category deleted"})
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	orgID, _ := uuid.Parse(c.Params("id"))

	var req dto.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	product, err := h.inventoryService.CreateProduct(orgID, &req)
	if err != nil {
		return mapInventoryError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

func (h *InventoryHandler) ListProducts(c *fiber.Ctx) error {
	orgID, _ := uuid.Parse(c.Params("id"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	products, total, err := h.inventoryService.ListProducts(orgID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list products",
		})
	}

	return c.JSON(fiber.Map{"products": products, "total": total})
}

func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	orgID, _ := uuid.Parse(c.Params("id"))
	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Product not found",
		})
	}

	var req dto.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	product, err := h.inventoryService.UpdateProduct(orgID, productID, &req)
	if err != nil {
		return mapInventoryError(c, err)
	}

	return c.JSON(product)
}

func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	orgID, _ := uuid.Parse(c.Params("id"))
	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Product not found",
		})
	}

	if err := h.inventoryService.DeleteProduct(orgID, productID); err != nil {
		return mapInventoryError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func mapInventoryError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrCategoryNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrSKUTaken):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		slog.Error("unhandled inventory error", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
}
