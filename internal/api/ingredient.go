package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cookbook-app/backend/internal/service"
)

// IngredientHandler serves the ingredient catalog.
type IngredientHandler struct {
	catalog *service.CatalogService
}

func NewIngredientHandler(catalog *service.CatalogService) *IngredientHandler {
	return &IngredientHandler{catalog: catalog}
}

// List returns ingredients, optionally narrowed by the name query
// parameter as a case-insensitive prefix. Unpaginated: the frontend
// autocomplete consumes the whole filtered set.
func (h *IngredientHandler) List(c *gin.Context) {
	ingredients, err := h.catalog.Ingredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

// Get returns one ingredient by id.
func (h *IngredientHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ingredient, err := h.catalog.Ingredient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}
