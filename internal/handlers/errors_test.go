package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tapstack/venue-backend/internal/billing"
	"github.com/tapstack/venue-backend/internal/dto"
	"github.com/tapstack/venue-backend/internal/services"
	"github.com/valyala/fasthttp"
)

func runMapper(t *testing.T, mapper func(*fiber.Ctx, error) error, err error) (int, dto.ErrorResponse) {
	t.Helper()
	app := fiber.New()
	ctx := app.AcquireCtx(&fasthttp.RequestCtx{})
	defer app.ReleaseCtx(ctx)

	require.NoError(t, mapper(ctx, err))

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(ctx.Response().Body(), &body))
	return ctx.Response().StatusCode(), body
}

// Unrecognized errors come from storage; their text must never reach the
// client.
func TestMappersHideUnrecognizedErrors(t *testing.T) {
	storageErr := errors.New("pq: connection refused to host db-primary")
	mappers := map[string]func(*fiber.Ctx, error) error{
		"org":          mapOrgError,
		"user":         mapUserError,
		"membership":   mapMembershipError,
		"invitation":   mapInvitationError,
		"subscription": mapSubscriptionError,
		"inventory":    mapInventoryError,
	}

	for name, mapper := range mappers {
		status, body := runMapper(t, mapper, storageErr)
		assert.Equal(t, fiber.StatusInternalServerError, status, "%s mapper", name)
		assert.True(t, body.Error, "%s mapper", name)
		assert.Equal(t, "Internal server error", body.Message, "%s mapper", name)
		assert.NotContains(t, body.Message, "db-primary", "%s mapper", name)
	}
}

func TestMappersInvalidInputIs400(t *testing.T) {
	wrapped := fmt.Errorf("%w: name is required", services.ErrInvalidInput)

	status, body := runMapper(t, mapOrgError, wrapped)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.True(t, body.Error)
}

func TestSubscriptionMapperProviderOutageIs503(t *testing.T) {
	wrapped := fmt.Errorf("%w: stripe returned 503", billing.ErrProviderUnavailable)

	status, body := runMapper(t, mapSubscriptionError, wrapped)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.True(t, body.Error)
}
