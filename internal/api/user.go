package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cookbook-app/backend/internal/middleware"
	"github.com/cookbook-app/backend/internal/models"
	"github.com/cookbook-app/backend/internal/service"
)

// UserHandler serves user profiles and the follow graph.
type UserHandler struct {
	users   *service.UserService
	follows *service.FollowService
	recipes *service.RecipeService
}

func NewUserHandler(users *service.UserService, follows *service.FollowService, recipes *service.RecipeService) *UserHandler {
	return &UserHandler{
		users:   users,
		follows: follows,
		recipes: recipes,
	}
}

// List returns a page of users ordered by username.
func (h *UserHandler) List(c *gin.Context) {
	params := pageParams(c)

	users, count, err := h.users.List(c.Request.Context(), params.Limit, params.Offset())
	if err != nil {
		respondError(c, err)
		return
	}

	viewerID := middleware.ViewerID(c)
	userIDs := make([]uint, len(users))
	for i, u := range users {
		userIDs[i] = u.ID
	}
	subscribed, err := h.follows.IsSubscribed(c.Request.Context(), viewerID, userIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = NewUserResponse(&users[i], subscribed[users[i].ID])
	}
	c.JSON(http.StatusOK, paginate(c, params, count, responses))
}

// Get returns one profile. The literal id "me" resolves to the caller
// and requires authentication.
func (h *UserHandler) Get(c *gin.Context) {
	var id uint
	if c.Param("id") == "me" {
		id = middleware.ViewerID(c)
		if id == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "authentication required"})
			return
		}
	} else {
		parsed, ok := parseID(c, "id")
		if !ok {
			return
		}
		id = parsed
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	subscribed, err := h.follows.IsSubscribed(c.Request.Context(), middleware.ViewerID(c), []uint{user.ID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewUserResponse(user, subscribed[user.ID]))
}

// Subscribe follows the target user and returns the subscription
// projection: the profile with embedded recipes.
func (h *UserHandler) Subscribe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	target, err := h.follows.Follow(c.Request.Context(), middleware.ViewerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response, err := h.buildSubscription(c, target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

// Unsubscribe removes the follow edge.
func (h *UserHandler) Unsubscribe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.follows.Unfollow(c.Request.Context(), middleware.ViewerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions lists the authors the caller follows, each with an
// embedded sample of recipes capped by recipes_limit.
func (h *UserHandler) Subscriptions(c *gin.Context) {
	params := pageParams(c)
	viewerID := middleware.ViewerID(c)

	recipesLimit := 0
	if raw := c.Query("recipes_limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"errors": "recipes_limit must be a non-negative integer"})
			return
		}
		recipesLimit = parsed
	}

	followees, count, err := h.follows.Followees(c.Request.Context(), viewerID, params.Limit, params.Offset())
	if err != nil {
		respondError(c, err)
		return
	}

	authorIDs := make([]uint, len(followees))
	for i, u := range followees {
		authorIDs[i] = u.ID
	}
	recipeCounts, err := h.recipes.CountByAuthor(c.Request.Context(), authorIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]SubscriptionResponse, len(followees))
	for i := range followees {
		author := &followees[i]
		recipes, err := h.recipes.ByAuthor(c.Request.Context(), author.ID, recipesLimit)
		if err != nil {
			respondError(c, err)
			return
		}

		embedded := make([]SimpleRecipeResponse, len(recipes))
		for j := range recipes {
			embedded[j] = NewSimpleRecipeResponse(&recipes[j])
		}

		responses[i] = SubscriptionResponse{
			UserResponse: NewUserResponse(author, true),
			Recipes:      embedded,
			RecipesCount: recipeCounts[author.ID],
		}
	}
	c.JSON(http.StatusOK, paginate(c, params, count, responses))
}

func (h *UserHandler) buildSubscription(c *gin.Context, target *models.User) (*SubscriptionResponse, error) {
	recipesLimit := 0
	if raw := c.Query("recipes_limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			recipesLimit = parsed
		}
	}

	recipes, err := h.recipes.ByAuthor(c.Request.Context(), target.ID, recipesLimit)
	if err != nil {
		return nil, err
	}
	counts, err := h.recipes.CountByAuthor(c.Request.Context(), []uint{target.ID})
	if err != nil {
		return nil, err
	}

	embedded := make([]SimpleRecipeResponse, len(recipes))
	for i := range recipes {
		embedded[i] = NewSimpleRecipeResponse(&recipes[i])
	}

	return &SubscriptionResponse{
		UserResponse: NewUserResponse(target, true),
		Recipes:      embedded,
		RecipesCount: counts[target.ID],
	}, nil
}
