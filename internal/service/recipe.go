package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/cookbook-app/backend/internal/models"
)

// ImageStore persists an encoded image payload and returns a public URL
// for it. The S3-backed implementation lives in image.go; tests supply
// a stub.
type ImageStore interface {
	Store(ctx context.Context, encoded string) (string, error)
}

// RecipeLimits are the validation thresholds for recipe submissions.
// MaxCookingTime of zero means no upper bound.
type RecipeLimits struct {
	MinCookingTime      int
	MaxCookingTime      int
	MinIngredientAmount int
}

// DefaultRecipeLimits match the catalog defaults: cooking time and
// ingredient amounts must both be at least 1.
func DefaultRecipeLimits() RecipeLimits {
	return RecipeLimits{MinCookingTime: 1, MinIngredientAmount: 1}
}

// IngredientAmount references a catalog ingredient with its quantity.
type IngredientAmount struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// RecipeInput is a candidate recipe submission.
type RecipeInput struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	TagIDs      []uint
	Ingredients []IngredientAmount
}

// RecipeService validates and persists recipes together with their tag
// and ingredient associations. Create and Update are atomic: either the
// recipe row and all its join rows are committed, or nothing is.
type RecipeService struct {
	db     *gorm.DB
	images ImageStore
	limits RecipeLimits
}

func NewRecipeService(db *gorm.DB, images ImageStore, limits RecipeLimits) *RecipeService {
	return &RecipeService{
		db:     db,
		images: images,
		limits: limits,
	}
}

// validate applies the input checks that need no database access.
// Duplicates are rejected by id-equality, before the existence check,
// so [1, 1] fails even when id 1 is unknown.
func (s *RecipeService) validate(input *RecipeInput, requireImage bool) error {
	if input.Name == "" {
		return invalid("recipe name is required")
	}
	if input.Text == "" {
		return invalid("recipe text is required")
	}
	if len(input.TagIDs) == 0 {
		return invalid("recipe must have at least one tag")
	}
	if len(input.Ingredients) == 0 {
		return invalid("recipe must have at least one ingredient")
	}
	if requireImage && input.Image == "" {
		return invalid("recipe image is required")
	}
	if input.CookingTime < s.limits.MinCookingTime {
		return invalid("cooking time cannot be less than %d", s.limits.MinCookingTime)
	}
	if s.limits.MaxCookingTime > 0 && input.CookingTime > s.limits.MaxCookingTime {
		return invalid("cooking time cannot exceed %d", s.limits.MaxCookingTime)
	}

	seenTags := make(map[uint]bool, len(input.TagIDs))
	for _, id := range input.TagIDs {
		if seenTags[id] {
			return invalid("duplicate tag in submission")
		}
		seenTags[id] = true
	}

	seenIngredients := make(map[uint]bool, len(input.Ingredients))
	for _, ing := range input.Ingredients {
		if seenIngredients[ing.ID] {
			return invalid("duplicate ingredient in submission")
		}
		seenIngredients[ing.ID] = true
		if ing.Amount < s.limits.MinIngredientAmount {
			return invalid("ingredient amount cannot be less than %d", s.limits.MinIngredientAmount)
		}
	}

	return nil
}

// checkReferences verifies that every referenced tag and ingredient id
// exists in its catalog. Runs inside the write transaction so a failure
// rolls back any join rows already cleared.
func (s *RecipeService) checkReferences(tx *gorm.DB, input *RecipeInput) error {
	var count int64
	if err := tx.Model(&models.Tag{}).Where("id IN ?", input.TagIDs).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(input.TagIDs)) {
		return invalid("referenced tag does not exist")
	}

	ingredientIDs := make([]uint, len(input.Ingredients))
	for i, ing := range input.Ingredients {
		ingredientIDs[i] = ing.ID
	}
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ingredientIDs).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ingredientIDs)) {
		return invalid("referenced ingredient does not exist")
	}

	return nil
}

// writeAssociations inserts the recipe's tag and ingredient join rows.
func (s *RecipeService) writeAssociations(tx *gorm.DB, recipeID uint, input *RecipeInput) error {
	recipeTags := make([]models.RecipeTag, len(input.TagIDs))
	for i, tagID := range input.TagIDs {
		recipeTags[i] = models.RecipeTag{RecipeID: recipeID, TagID: tagID}
	}
	if err := tx.Create(&recipeTags).Error; err != nil {
		return err
	}

	rows := make([]models.IngredientInRecipe, len(input.Ingredients))
	for i, ing := range input.Ingredients {
		rows[i] = models.IngredientInRecipe{
			RecipeID:     recipeID,
			IngredientID: ing.ID,
			Amount:       ing.Amount,
		}
	}
	return tx.Create(&rows).Error
}

// Create validates and persists a new recipe for the author.
func (s *RecipeService) Create(ctx context.Context, authorID uint, input RecipeInput) (*models.Recipe, error) {
	if err := s.validate(&input, true); err != nil {
		return nil, err
	}

	imageURL, err := s.images.Store(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        input.Name,
		Text:        input.Text,
		ImageURL:    imageURL,
		CookingTime: input.CookingTime,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkReferences(tx, &input); err != nil {
			return err
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		return s.writeAssociations(tx, recipe.ID, &input)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipe.ID)
}

// Update replaces the recipe's fields and association sets wholesale.
// The old join rows are deleted and recreated inside one transaction;
// pub_date is never touched. Only the author may update.
func (s *RecipeService) Update(ctx context.Context, viewerID, recipeID uint, input RecipeInput) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if recipe.AuthorID != viewerID {
		return nil, ErrForbidden
	}

	if err := s.validate(&input, false); err != nil {
		return nil, err
	}

	imageURL := recipe.ImageURL
	if input.Image != "" {
		url, err := s.images.Store(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		imageURL = url
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.IngredientInRecipe{}).Error; err != nil {
			return err
		}
		if err := s.checkReferences(tx, &input); err != nil {
			return err
		}
		if err := s.writeAssociations(tx, recipe.ID, &input); err != nil {
			return err
		}
		return tx.Model(&recipe).Updates(map[string]interface{}{
			"name":         input.Name,
			"text":         input.Text,
			"image_url":    imageURL,
			"cooking_time": input.CookingTime,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipe.ID)
}

// Get loads one recipe with its tags, ingredients and author.
func (s *RecipeService) Get(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// Delete removes the recipe and everything referencing it: join rows,
// favorites and cart entries go in the same transaction so no orphaned
// membership rows survive. Only the author may delete.
func (s *RecipeService) Delete(ctx context.Context, viewerID, recipeID uint) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if recipe.AuthorID != viewerID {
		return ErrForbidden
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.RecipeTag{},
			&models.IngredientInRecipe{},
			&models.Favorite{},
			&models.Cart{},
		} {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&recipe).Error
	})
}

// RecipeFilter narrows a recipe listing. Favorited and InCart are
// no-ops for anonymous viewers (ViewerID zero).
type RecipeFilter struct {
	TagSlugs  []string
	AuthorID  uint
	Favorited bool
	InCart    bool
	ViewerID  uint
	Limit     int
	Offset    int
}

// List returns a page of recipes ordered by publication date descending,
// plus the total count before pagination.
func (s *RecipeService) List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if len(filter.TagSlugs) > 0 {
		query = query.Where(
			"recipes.id IN (?)",
			s.db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.TagSlugs),
		)
	}
	if filter.AuthorID != 0 {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if filter.Favorited && filter.ViewerID != 0 {
		query = query.Where(
			"recipes.id IN (?)",
			s.db.Model(&models.Favorite{}).Select("recipe_id").Where("author_id = ?", filter.ViewerID),
		)
	}
	if filter.InCart && filter.ViewerID != 0 {
		query = query.Where(
			"recipes.id IN (?)",
			s.db.Model(&models.Cart{}).Select("recipe_id").Where("author_id = ?", filter.ViewerID),
		)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := query.
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		Order("recipes.pub_date DESC, recipes.id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

// ByAuthor returns the author's recipes, newest first, optionally capped.
func (s *RecipeService) ByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("pub_date DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// CountByAuthor returns how many recipes each of the given authors has.
func (s *RecipeService) CountByAuthor(ctx context.Context, authorIDs []uint) (map[uint]int, error) {
	counts := make(map[uint]int, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uint
		Total    int
	}
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

// ViewerFlags reports, for each recipe id, whether the viewer has it in
// favorites and in the shopping cart. Both maps are empty for anonymous
// viewers. Two batched queries replace per-recipe existence checks.
func (s *RecipeService) ViewerFlags(ctx context.Context, viewerID uint, recipeIDs []uint) (map[uint]bool, map[uint]bool, error) {
	favorited := make(map[uint]bool)
	inCart := make(map[uint]bool)
	if viewerID == 0 || len(recipeIDs) == 0 {
		return favorited, inCart, nil
	}

	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("author_id = ? AND recipe_id IN ?", viewerID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, nil, err
	}
	for _, id := range ids {
		favorited[id] = true
	}

	var cartIDs []uint
	err = s.db.WithContext(ctx).Model(&models.Cart{}).
		Where("author_id = ? AND recipe_id IN ?", viewerID, recipeIDs).
		Pluck("recipe_id", &cartIDs).Error
	if err != nil {
		return nil, nil, err
	}
	for _, id := range cartIDs {
		inCart[id] = true
	}

	return favorited, inCart, nil
}
