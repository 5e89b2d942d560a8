package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/cookbook-app/backend/internal/models"
)

// LedgerService toggles membership of (recipe, user) pairs in the two
// independent sets: favorites and the shopping cart. The unique
// constraint on each pair table is the authoritative arbiter for
// concurrent adds; a racing insert surfaces as gorm.ErrDuplicatedKey
// and is translated to ErrAlreadyExists.
type LedgerService struct {
	db *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

// AddToCart puts the recipe into the user's shopping cart and returns
// the recipe for the simplified projection.
func (s *LedgerService) AddToCart(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	return s.add(ctx, userID, recipeID, &models.Cart{RecipeID: recipeID, AuthorID: userID}, &models.Cart{})
}

// RemoveFromCart drops the recipe from the user's shopping cart.
func (s *LedgerService) RemoveFromCart(ctx context.Context, userID, recipeID uint) error {
	return s.remove(ctx, userID, recipeID, &models.Cart{})
}

// AddFavorite marks the recipe as one of the user's favorites.
func (s *LedgerService) AddFavorite(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	return s.add(ctx, userID, recipeID, &models.Favorite{RecipeID: recipeID, AuthorID: userID}, &models.Favorite{})
}

// RemoveFavorite unmarks the recipe as a favorite.
func (s *LedgerService) RemoveFavorite(ctx context.Context, userID, recipeID uint) error {
	return s.remove(ctx, userID, recipeID, &models.Favorite{})
}

// add checks the recipe exists before mutating membership: a POST
// against an unknown recipe id is a validation failure, distinct from
// "already a member".
func (s *LedgerService) add(ctx context.Context, userID, recipeID uint, row interface{}, probe interface{}) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid("recipe does not exist")
		}
		return nil, err
	}

	var count int64
	err := s.db.WithContext(ctx).Model(probe).
		Where("recipe_id = ? AND author_id = ?", recipeID, userID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyExists
	}

	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	return &recipe, nil
}

// remove deletes the membership row. An unknown recipe id is ErrNotFound;
// a known recipe that was never added is a validation failure.
func (s *LedgerService) remove(ctx context.Context, userID, recipeID uint, probe interface{}) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	result := s.db.WithContext(ctx).
		Where("recipe_id = ? AND author_id = ?", recipeID, userID).
		Delete(probe)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return invalid("recipe was not added")
	}
	return nil
}
