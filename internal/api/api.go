package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/cookbook-app/backend/internal/middleware"
	"github.com/cookbook-app/backend/internal/service"
)

// Dependencies carries everything the API surface needs. Redis is
// optional: without it the write endpoints run unthrottled.
type Dependencies struct {
	DB        *gorm.DB
	Redis     *redis.Client
	Images    service.ImageStore
	JWTSecret string
	Limits    service.RecipeLimits
}

// SetupAPI registers every route under /api.
func SetupAPI(router *gin.Engine, deps Dependencies) {
	authService := service.NewAuthService(deps.DB, deps.JWTSecret)
	userService := service.NewUserService(deps.DB)
	followService := service.NewFollowService(deps.DB)
	catalogService := service.NewCatalogService(deps.DB)
	recipeService := service.NewRecipeService(deps.DB, deps.Images, deps.Limits)
	ledgerService := service.NewLedgerService(deps.DB)
	shoppingService := service.NewShoppingListService(deps.DB)

	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService, followService, recipeService)
	tagHandler := NewTagHandler(catalogService)
	ingredientHandler := NewIngredientHandler(catalogService)
	recipeHandler := NewRecipeHandler(recipeService, ledgerService, followService, shoppingService)

	requireAuth := middleware.AuthMiddleware(authService)
	optionalAuth := middleware.OptionalAuthMiddleware(authService)

	// With no Redis the limiters degrade to pass-through.
	creationLimit := passThrough()
	modificationLimit := passThrough()
	if deps.Redis != nil {
		creationLimit = middleware.NewRecipeCreationRateLimiter(deps.Redis).Middleware()
		modificationLimit = middleware.NewRecipeModificationRateLimiter(deps.Redis).PerRecipeMiddleware()
	}

	api := router.Group("/api")
	{
		api.GET("/health", HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/token/login", authHandler.Login)
			auth.POST("/token/logout", requireAuth, authHandler.Logout)
		}

		users := api.Group("/users")
		{
			users.POST("", authHandler.Register)
			users.GET("", optionalAuth, userHandler.List)
			users.GET("/subscriptions", requireAuth, userHandler.Subscriptions)
			users.GET("/:id", optionalAuth, userHandler.Get)
			users.POST("/:id/subscribe", requireAuth, userHandler.Subscribe)
			users.DELETE("/:id/subscribe", requireAuth, userHandler.Unsubscribe)
		}

		tags := api.Group("/tags")
		{
			tags.GET("", tagHandler.List)
			tags.GET("/:id", tagHandler.Get)
		}

		ingredients := api.Group("/ingredients")
		{
			ingredients.GET("", ingredientHandler.List)
			ingredients.GET("/:id", ingredientHandler.Get)
		}

		recipes := api.Group("/recipes")
		{
			recipes.GET("", optionalAuth, recipeHandler.List)
			recipes.POST("", requireAuth, creationLimit, recipeHandler.Create)
			recipes.GET("/download_shopping_cart", requireAuth, recipeHandler.DownloadShoppingCart)
			recipes.GET("/:id", optionalAuth, recipeHandler.Get)
			recipes.PATCH("/:id", requireAuth, modificationLimit, recipeHandler.Update)
			recipes.DELETE("/:id", requireAuth, recipeHandler.Delete)
			recipes.POST("/:id/favorite", requireAuth, recipeHandler.AddFavorite)
			recipes.DELETE("/:id/favorite", requireAuth, recipeHandler.RemoveFavorite)
			recipes.POST("/:id/shopping_cart", requireAuth, recipeHandler.AddToCart)
			recipes.DELETE("/:id/shopping_cart", requireAuth, recipeHandler.RemoveFromCart)
		}
	}
}

// HealthCheck reports liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func passThrough() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
	}
}
