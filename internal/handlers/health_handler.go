package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tapstack/venue-backend/internal/billing"
	"github.com/tapstack/venue-backend/internal/database"
	"github.com/tapstack/venue-backend/internal/dto"
)

type HealthHandler struct {
	catalog *billing.Catalog
}

func NewHealthHandler(catalog *billing.Catalog) *HealthHandler {
	return &HealthHandler{catalog: catalog}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		PlanCount: len(h.catalog.All()),
	})
}
