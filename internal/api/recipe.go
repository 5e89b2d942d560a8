package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cookbook-app/backend/internal/middleware"
	"github.com/cookbook-app/backend/internal/models"
	"github.com/cookbook-app/backend/internal/service"
)

// RecipeHandler serves the recipe collection plus the per-recipe
// membership endpoints (favorites, shopping cart) and the shopping
// list download.
type RecipeHandler struct {
	recipes  *service.RecipeService
	ledger   *service.LedgerService
	follows  *service.FollowService
	shopping *service.ShoppingListService
}

func NewRecipeHandler(
	recipes *service.RecipeService,
	ledger *service.LedgerService,
	follows *service.FollowService,
	shopping *service.ShoppingListService,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:  recipes,
		ledger:   ledger,
		follows:  follows,
		shopping: shopping,
	}
}

// buildResponses assembles full recipe projections for a batch,
// resolving the viewer-relative flags with three grouped queries
// instead of one per recipe.
func (h *RecipeHandler) buildResponses(c *gin.Context, recipes []models.Recipe) ([]RecipeResponse, error) {
	viewerID := middleware.ViewerID(c)

	recipeIDs := make([]uint, len(recipes))
	authorIDs := make([]uint, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		authorIDs[i] = r.AuthorID
	}

	favorited, inCart, err := h.recipes.ViewerFlags(c.Request.Context(), viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := h.follows.IsSubscribed(c.Request.Context(), viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	responses := make([]RecipeResponse, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		responses[i] = NewRecipeResponse(r, subscribed[r.AuthorID], favorited[r.ID], inCart[r.ID])
	}
	return responses, nil
}

func (h *RecipeHandler) respondOne(c *gin.Context, status int, recipe *models.Recipe) {
	responses, err := h.buildResponses(c, []models.Recipe{*recipe})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, responses[0])
}

// List returns a page of recipes, newest first. Filters: tags (by slug,
// repeatable, OR-combined), author, is_favorited, is_in_shopping_cart.
func (h *RecipeHandler) List(c *gin.Context) {
	params := pageParams(c)

	filter := service.RecipeFilter{
		TagSlugs: c.QueryArray("tags"),
		ViewerID: middleware.ViewerID(c),
		Limit:    params.Limit,
		Offset:   params.Offset(),
	}
	if author := c.Query("author"); author != "" {
		id, err := strconv.ParseUint(author, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": "author must be a numeric id"})
			return
		}
		filter.AuthorID = uint(id)
	}
	filter.Favorited = isTruthy(c.Query("is_favorited"))
	filter.InCart = isTruthy(c.Query("is_in_shopping_cart"))

	recipes, count, err := h.recipes.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	responses, err := h.buildResponses(c, recipes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginate(c, params, count, responses))
}

// Get returns one recipe.
func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondOne(c, http.StatusOK, recipe)
}

// Create publishes a new recipe owned by the caller.
func (h *RecipeHandler) Create(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid request body"})
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), middleware.ViewerID(c), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondOne(c, http.StatusCreated, recipe)
}

// Update replaces the recipe wholesale. Author-only.
func (h *RecipeHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid request body"})
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), middleware.ViewerID(c), id, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondOne(c, http.StatusOK, recipe)
}

// Delete removes the recipe. Author-only.
func (h *RecipeHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), middleware.ViewerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddFavorite marks the recipe as a favorite of the caller.
func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addMembership(c, h.ledger.AddFavorite)
}

// RemoveFavorite unmarks the recipe.
func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeMembership(c, h.ledger.RemoveFavorite)
}

// AddToCart puts the recipe into the caller's shopping cart.
func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addMembership(c, h.ledger.AddToCart)
}

// RemoveFromCart takes the recipe out of the cart.
func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeMembership(c, h.ledger.RemoveFromCart)
}

func (h *RecipeHandler) addMembership(c *gin.Context, add func(ctx context.Context, userID, recipeID uint) (*models.Recipe, error)) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	recipe, err := add(c.Request.Context(), middleware.ViewerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewSimpleRecipeResponse(recipe))
}

func (h *RecipeHandler) removeMembership(c *gin.Context, remove func(ctx context.Context, userID, recipeID uint) error) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := remove(c.Request.Context(), middleware.ViewerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart renders the caller's aggregated shopping list as
// a plain-text attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	items, err := h.shopping.Aggregate(c.Request.Context(), middleware.ViewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	var report strings.Builder
	if err := h.shopping.WriteReport(&report, items); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(report.String()))
}

func isTruthy(value string) bool {
	return value == "1" || strings.EqualFold(value, "true")
}
