package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/cookbook-app/backend/internal/models"
)

// Migrate creates the schema via GORM auto-migration. The recipe/tag
// join table is registered explicitly so the composer can write its
// rows directly while the Tags association stays readable.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Recipe{}, "Tags", &models.RecipeTag{}); err != nil {
		return fmt.Errorf("failed to set up recipe_tags join table: %w", err)
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.IngredientInRecipe{},
		&models.Favorite{},
		&models.Cart{},
	)
}
