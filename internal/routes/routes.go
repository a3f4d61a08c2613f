package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/tapstack/venue-backend/internal/authz"
	"github.com/tapstack/venue-backend/internal/config"
	"github.com/tapstack/venue-backend/internal/handlers"
	"github.com/tapstack/venue-backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authorizer *authz.Authorizer,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	orgHandler *handlers.OrgHandler,
	membershipHandler *handlers.MembershipHandler,
	invitationHandler *handlers.InvitationHandler,
	subscriptionHandler *handlers.SubscriptionHandler,
	inventoryHandler *handlers.InventoryHandler,
	webhookHandler *handlers.WebhookHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/google", authHandler.GoogleSignIn)

	// Apply JWT middleware per-route so public routes stay public
	jwt := middleware.JWTProtected(cfg)

	api.Post("/auth/logout", jwt, authHandler.Logout)

	// Current user
	api.Get("/me", jwt, userHandler.GetMe)
	api.Patch("/me", jwt, userHandler.UpdateMe)

	// Subscription (caller-scoped; owners bill per account)
	sub := api.Group("/subscription", jwt)
	sub.Get("/", subscriptionHandler.Get)
	sub.Get("/plans", subscriptionHandler.Plans)
	sub.Get("/trial-eligibility", subscriptionHandler.TrialEligibility)
	sub.Post("/start-owner-trial", subscriptionHandler.StartOwnerTrial)
	sub.Post("/change-tier", subscriptionHandler.ChangeTier)
	sub.Delete("/cancel", subscriptionHandler.Cancel)
	sub.Post("/reactivate", subscriptionHandler.Reactivate)

	// Organizations
	orgs := api.Group("/organizations", jwt)
	orgs.Post("/", orgHandler.Create)
	orgs.Get("/", orgHandler.ListMine)
	orgs.Get("/:id", authz.RequireOrgRole(authorizer, authz.OpViewOrganization), orgHandler.Get)
	orgs.Patch("/:id", authz.RequireOrgRole(authorizer, authz.OpUpdateOrganization), orgHandler.Update)
	orgs.Delete("/:id", authz.RequireOrgRole(authorizer, authz.OpDeleteOrganization), orgHandler.Delete)
	orgs.Post("/:id/transfer-ownership", authz.RequireOrgRole(authorizer, authz.OpTransferOwnership), orgHandler.TransferOwnership)

	// Members
	orgs.Get("/:id/users", authz.RequireOrgRole(authorizer, authz.OpViewMembers), membershipHandler.ListMembers)
	orgs.Post("/:id/users", authz.RequireOrgRole(authorizer, authz.OpAddMember), membershipHandler.AddMember)
	orgs.Patch("/:id/users/:userId", authz.RequireOrgRole(authorizer, authz.OpChangeMemberRole), membershipHandler.UpdateRole)
	orgs.Delete("/:id/users/:userId", authz.RequireOrgRole(authorizer, authz.OpRemoveMember), membershipHandler.RemoveMember)

	// Invitations — org side
	orgs.Post("/:id/invitations", authz.RequireOrgRole(authorizer, authz.OpInviteMember), invitationHandler.Invite)
	orgs.Delete("/:id/invitations/:invitationId", authz.RequireOrgRole(authorizer, authz.OpRevokeInvitation), invitationHandler.Revoke)

	// Invitations — invitee side (matched by JWT email, not membership)
	invitations := api.Group("/invitations", jwt)
	invitations.Get("/", invitationHandler.ListMine)
	invitations.Post("/:id/accept", invitationHandler.Accept)
	invitations.Post("/:id/decline", invitationHandler.Decline)

	// Inventory
	orgs.Get("/:id/categories", authz.RequireOrgRole(authorizer, authz.OpViewInventory), inventoryHandler.ListCategories)
	orgs.Post("/:id/categories", authz.RequireOrgRole(authorizer, authz.OpManageInventory), inventoryHandler.CreateCategory)
	orgs.Patch("/:id/categories/:categoryId", authz.RequireOrgRole(authorizer, authz.OpManageInventory), inventoryHandler.UpdateCategory)
	orgs.Delete("/:id/categories/:categoryId", authz.RequireOrgRole(authorizer, authz.OpManageInventory), inventoryHandler.DeleteCategory)
	orgs.Get("/:id/products", authz.RequireOrgRole(authorizer, authz.OpViewInventory), inventoryHandler.ListProducts)
	orgs.Post("/:id/products", authz.RequireOrgRole(authorizer, authz.OpManageInventory), inventoryHandler.CreateProduct)
	orgs.Patch("/:id/products/:productId", authz.RequireOrgRole(authorizer, authz.OpManageInventory), inventoryHandler.UpdateProduct)
	orgs.Delete("/:id/products/:productId", authz.RequireOrgRole(authorizer, authz.OpManageInventory), inventoryHandler.DeleteProduct)

	// Admin user management (protected + admin required)
	admin := api.Group("/admin", jwt, middleware.AdminRequired(db, cfg))
	admin.Get("/users", userHandler.List)
	admin.Get("/users/:id", userHandler.Get)
	admin.Post("/users", userHandler.Create)
	admin.Patch("/users/:id", userHandler.Update)
	admin.Delete("/users/:id", userHandler.Delete)

	// Webhooks — signature auth, no JWT
	webhooks := api.Group("/webhooks")
	webhooks.Post("/stripe", webhookHandler.HandleStripe)
}
