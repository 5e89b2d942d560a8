package api

import (
	"github.com/cookbook-app/backend/internal/models"
	"github.com/cookbook-app/backend/internal/service"
)

// UserResponse is the public profile projection. IsSubscribed is
// viewer-relative and always false for anonymous requests.
type UserResponse struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

func NewUserResponse(user *models.User, isSubscribed bool) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
}

// RecipeIngredientResponse flattens an ingredient join row: catalog
// fields plus the per-recipe amount.
type RecipeIngredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse is the full recipe projection.
type RecipeResponse struct {
	ID               uint                       `json:"id"`
	Tags             []models.Tag               `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

func NewRecipeResponse(recipe *models.Recipe, authorSubscribed, favorited, inCart bool) RecipeResponse {
	ingredients := make([]RecipeIngredientResponse, len(recipe.Ingredients))
	for i, row := range recipe.Ingredients {
		ingredients[i] = RecipeIngredientResponse{
			ID:              row.IngredientID,
			Name:            row.Ingredient.Name,
			MeasurementUnit: row.Ingredient.MeasurementUnit,
			Amount:          row.Amount,
		}
	}

	tags := recipe.Tags
	if tags == nil {
		tags = []models.Tag{}
	}

	return RecipeResponse{
		ID:               recipe.ID,
		Tags:             tags,
		Author:           NewUserResponse(&recipe.Author, authorSubscribed),
		Ingredients:      ingredients,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             recipe.Name,
		Image:            recipe.ImageURL,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}
}

// SimpleRecipeResponse is the reduced projection used by the membership
// endpoints and the subscription feed.
type SimpleRecipeResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

func NewSimpleRecipeResponse(recipe *models.Recipe) SimpleRecipeResponse {
	return SimpleRecipeResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}
}

// SubscriptionResponse is a followed author with an embedded sample of
// their recipes.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []SimpleRecipeResponse `json:"recipes"`
	RecipesCount int                    `json:"recipes_count"`
}

// RecipeRequest is the recipe submission payload.
type RecipeRequest struct {
	Name        string                     `json:"name"`
	Text        string                     `json:"text"`
	Image       string                     `json:"image"`
	CookingTime int                        `json:"cooking_time"`
	Tags        []uint                     `json:"tags"`
	Ingredients []service.IngredientAmount `json:"ingredients"`
}

func (r *RecipeRequest) toInput() service.RecipeInput {
	return service.RecipeInput{
		Name:        r.Name,
		Text:        r.Text,
		Image:       r.Image,
		CookingTime: r.CookingTime,
		TagIDs:      r.Tags,
		Ingredients: r.Ingredients,
	}
}

// RegisterRequest is the account creation payload.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the token issuance payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
