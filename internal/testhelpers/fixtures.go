package testhelpers

import (
	"fmt"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cookbook-app/backend/internal/models"
)

// CreateTestUser inserts a user with a bcrypt-hashed password. The slug
// keeps emails and usernames unique within one test database.
func CreateTestUser(t *testing.T, db *gorm.DB, slug string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := models.User{
		Email:        fmt.Sprintf("%s@example.com", slug),
		Username:     slug,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: string(hash),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user %q: %v", slug, err)
	}
	return &user
}

// CreateTestTag inserts a catalog tag.
func CreateTestTag(t *testing.T, db *gorm.DB, name, slug, color string) *models.Tag {
	t.Helper()

	tag := models.Tag{Name: name, Slug: slug, Color: color}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("failed to create test tag %q: %v", name, err)
	}
	return &tag
}

// CreateTestIngredient inserts a catalog ingredient.
func CreateTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()

	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(&ingredient).Error; err != nil {
		t.Fatalf("failed to create test ingredient %q: %v", name, err)
	}
	return &ingredient
}
