package service

import (
	"context"
	"fmt"
	"io"

	"gorm.io/gorm"

	"github.com/cookbook-app/backend/internal/models"
)

// ShoppingItem is one aggregated line of a shopping list.
type ShoppingItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// ShoppingListService reduces the user's cart into a deduplicated
// ingredient list and renders it as a plain-text report.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Aggregate joins the user's cart against the ingredient join rows,
// groups by (name, measurement unit) and sums the amounts. Ordering is
// ascending byte-wise on the ingredient name, so it is case-sensitive.
// An empty cart yields an empty slice.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uint) ([]ShoppingItem, error) {
	items := []ShoppingItem{}
	err := s.db.WithContext(ctx).Model(&models.IngredientInRecipe{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(ingredient_in_recipes.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = ingredient_in_recipes.ingredient_id").
		Joins("JOIN carts ON carts.recipe_id = ingredient_in_recipes.recipe_id").
		Where("carts.author_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// WriteReport renders the aggregated list one line per ingredient:
// "<name>: <amount><unit>\n".
func (s *ShoppingListService) WriteReport(w io.Writer, items []ShoppingItem) error {
	for _, item := range items {
		if _, err := fmt.Fprintf(w, "%s: %d%s\n", item.Name, item.Amount, item.MeasurementUnit); err != nil {
			return err
		}
	}
	return nil
}
