package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/cookbook-app/backend/internal/models"
)

// CatalogService reads the static tag and ingredient reference data.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// Tags returns every tag, ordered by id.
func (s *CatalogService) Tags(ctx context.Context) ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// Tag returns one tag by id.
func (s *CatalogService) Tag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// Ingredients returns ingredients, optionally filtered by a
// case-insensitive name prefix, ordered by name.
func (s *CatalogService) Ingredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Model(&models.Ingredient{})
	if namePrefix != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", namePrefix+"%")
	}

	ingredients := []models.Ingredient{}
	if err := query.Order("name ASC").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// Ingredient returns one ingredient by id.
func (s *CatalogService) Ingredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}
