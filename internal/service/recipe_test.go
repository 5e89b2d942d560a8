package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cookbook-app/backend/internal/models"
	"github.com/cookbook-app/backend/internal/testhelpers"
)

type stubImageStore struct {
	url string
	err error
}

func (s stubImageStore) Store(ctx context.Context, encoded string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}

type recipeFixtures struct {
	db        *gorm.DB
	svc       *RecipeService
	author    *models.User
	other     *models.User
	breakfast *models.Tag
	dinner    *models.Tag
	salt      *models.Ingredient
	flour     *models.Ingredient
}

func setupRecipeTest(t *testing.T) *recipeFixtures {
	t.Helper()

	db := testhelpers.SetupTestDatabase(t)
	return &recipeFixtures{
		db:        db,
		svc:       NewRecipeService(db, stubImageStore{url: "https://img.test/stored.png"}, DefaultRecipeLimits()),
		author:    testhelpers.CreateTestUser(t, db, "author"),
		other:     testhelpers.CreateTestUser(t, db, "other"),
		breakfast: testhelpers.CreateTestTag(t, db, "Breakfast", "breakfast", "#E26C2D"),
		dinner:    testhelpers.CreateTestTag(t, db, "Dinner", "dinner", "#49B64E"),
		salt:      testhelpers.CreateTestIngredient(t, db, "Salt", "g"),
		flour:     testhelpers.CreateTestIngredient(t, db, "Flour", "g"),
	}
}

func (f *recipeFixtures) validInput() RecipeInput {
	return RecipeInput{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		Image:       "aGVsbG8=",
		CookingTime: 20,
		TagIDs:      []uint{f.breakfast.ID},
		Ingredients: []IngredientAmount{
			{ID: f.salt.ID, Amount: 5},
			{ID: f.flour.ID, Amount: 200},
		},
	}
}

func TestRecipeCreateRoundTrip(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	recipe, err := f.svc.Create(ctx, f.author.ID, f.validInput())
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", recipe.Name)
	assert.Equal(t, "Mix and fry.", recipe.Text)
	assert.Equal(t, "https://img.test/stored.png", recipe.ImageURL)
	assert.Equal(t, 20, recipe.CookingTime)
	assert.Equal(t, f.author.ID, recipe.AuthorID)
	assert.Equal(t, f.author.Username, recipe.Author.Username)
	assert.False(t, recipe.PubDate.IsZero())

	require.Len(t, recipe.Tags, 1)
	assert.Equal(t, f.breakfast.ID, recipe.Tags[0].ID)

	require.Len(t, recipe.Ingredients, 2)
	amounts := map[uint]int{}
	for _, row := range recipe.Ingredients {
		amounts[row.IngredientID] = row.Amount
	}
	assert.Equal(t, 5, amounts[f.salt.ID])
	assert.Equal(t, 200, amounts[f.flour.ID])
}

func TestRecipeCreateValidation(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*RecipeInput)
	}{
		{"missing name", func(in *RecipeInput) { in.Name = "" }},
		{"missing text", func(in *RecipeInput) { in.Text = "" }},
		{"missing image", func(in *RecipeInput) { in.Image = "" }},
		{"no tags", func(in *RecipeInput) { in.TagIDs = nil }},
		{"no ingredients", func(in *RecipeInput) { in.Ingredients = nil }},
		{"zero cooking time", func(in *RecipeInput) { in.CookingTime = 0 }},
		{"zero ingredient amount", func(in *RecipeInput) { in.Ingredients[0].Amount = 0 }},
		{"duplicate tags", func(in *RecipeInput) { in.TagIDs = []uint{f.breakfast.ID, f.breakfast.ID} }},
		{"duplicate ingredients", func(in *RecipeInput) {
			in.Ingredients = []IngredientAmount{{ID: f.salt.ID, Amount: 1}, {ID: f.salt.ID, Amount: 2}}
		}},
		{"unknown tag", func(in *RecipeInput) { in.TagIDs = []uint{99999} }},
		{"unknown ingredient", func(in *RecipeInput) {
			in.Ingredients = []IngredientAmount{{ID: 99999, Amount: 1}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := f.validInput()
			tt.mutate(&input)

			_, err := f.svc.Create(ctx, f.author.ID, input)
			assert.True(t, IsValidation(err), "expected validation error, got %v", err)
		})
	}

	// Nothing should have been committed by the failed attempts.
	var count int64
	require.NoError(t, f.db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecipeCreateDuplicateIDsRejectedBeforeExistence(t *testing.T) {
	f := setupRecipeTest(t)

	// Duplicate unknown ids still fail on the duplicate rule, not the
	// reference check.
	input := f.validInput()
	input.TagIDs = []uint{424242, 424242}

	_, err := f.svc.Create(context.Background(), f.author.ID, input)
	require.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "duplicate tag")
}

func TestRecipeCreateMinimumCookingTimeBoundary(t *testing.T) {
	f := setupRecipeTest(t)

	input := f.validInput()
	input.CookingTime = 1

	recipe, err := f.svc.Create(context.Background(), f.author.ID, input)
	require.NoError(t, err)
	assert.Equal(t, 1, recipe.CookingTime)
}

func TestRecipeCreateFailureLeavesNoJoinRows(t *testing.T) {
	f := setupRecipeTest(t)

	input := f.validInput()
	input.Ingredients = append(input.Ingredients, IngredientAmount{ID: 99999, Amount: 1})

	_, err := f.svc.Create(context.Background(), f.author.ID, input)
	require.Error(t, err)

	var tagRows, ingredientRows int64
	require.NoError(t, f.db.Model(&models.RecipeTag{}).Count(&tagRows).Error)
	require.NoError(t, f.db.Model(&models.IngredientInRecipe{}).Count(&ingredientRows).Error)
	assert.Zero(t, tagRows)
	assert.Zero(t, ingredientRows)
}

func TestRecipeUpdateReplacesAssociations(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.author.ID, f.validInput())
	require.NoError(t, err)
	originalPubDate := created.PubDate

	update := RecipeInput{
		Name:        "Dinner pancakes",
		Text:        "Now for dinner.",
		CookingTime: 35,
		TagIDs:      []uint{f.dinner.ID},
		Ingredients: []IngredientAmount{{ID: f.flour.ID, Amount: 300}},
	}

	updated, err := f.svc.Update(ctx, f.author.ID, created.ID, update)
	require.NoError(t, err)

	assert.Equal(t, "Dinner pancakes", updated.Name)
	assert.Equal(t, 35, updated.CookingTime)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, f.dinner.ID, updated.Tags[0].ID)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, f.flour.ID, updated.Ingredients[0].IngredientID)
	assert.Equal(t, 300, updated.Ingredients[0].Amount)

	// Wholesale replace, no leftovers from the first version.
	var tagRows int64
	require.NoError(t, f.db.Model(&models.RecipeTag{}).Where("recipe_id = ?", created.ID).Count(&tagRows).Error)
	assert.EqualValues(t, 1, tagRows)

	// Publication date and stored image survive an update without image.
	assert.Equal(t, originalPubDate.Unix(), updated.PubDate.Unix())
	assert.Equal(t, created.ImageURL, updated.ImageURL)
}

func TestRecipeUpdateIdempotent(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.author.ID, f.validInput())
	require.NoError(t, err)

	update := f.validInput()
	update.Image = ""

	first, err := f.svc.Update(ctx, f.author.ID, created.ID, update)
	require.NoError(t, err)
	second, err := f.svc.Update(ctx, f.author.ID, created.ID, update)
	require.NoError(t, err)

	assert.Equal(t, len(first.Tags), len(second.Tags))
	assert.Equal(t, len(first.Ingredients), len(second.Ingredients))

	var ingredientRows int64
	require.NoError(t, f.db.Model(&models.IngredientInRecipe{}).Where("recipe_id = ?", created.ID).Count(&ingredientRows).Error)
	assert.EqualValues(t, 2, ingredientRows)
}

func TestRecipeUpdateAuthorization(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.author.ID, f.validInput())
	require.NoError(t, err)

	update := f.validInput()
	update.Image = ""

	_, err = f.svc.Update(ctx, f.other.ID, created.ID, update)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Update(ctx, f.author.ID, 99999, update)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecipeDeleteCleansUpReferences(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.author.ID, f.validInput())
	require.NoError(t, err)

	ledger := NewLedgerService(f.db)
	_, err = ledger.AddFavorite(ctx, f.other.ID, created.ID)
	require.NoError(t, err)
	_, err = ledger.AddToCart(ctx, f.other.ID, created.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, f.author.ID, created.ID))

	_, err = f.svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	for _, model := range []interface{}{
		&models.RecipeTag{}, &models.IngredientInRecipe{}, &models.Favorite{}, &models.Cart{},
	} {
		var count int64
		require.NoError(t, f.db.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestRecipeDeleteAuthorization(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.author.ID, f.validInput())
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(ctx, f.other.ID, created.ID), ErrForbidden)
	assert.ErrorIs(t, f.svc.Delete(ctx, f.author.ID, 99999), ErrNotFound)
}

func TestRecipeListFiltersAndOrder(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	breakfastInput := f.validInput()
	first, err := f.svc.Create(ctx, f.author.ID, breakfastInput)
	require.NoError(t, err)

	dinnerInput := f.validInput()
	dinnerInput.Name = "Stew"
	dinnerInput.TagIDs = []uint{f.dinner.ID}
	second, err := f.svc.Create(ctx, f.other.ID, dinnerInput)
	require.NoError(t, err)

	// Newest first.
	all, count, err := f.svc.List(ctx, RecipeFilter{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)

	// Tag slugs are OR-combined.
	byTag, count, err := f.svc.List(ctx, RecipeFilter{TagSlugs: []string{"dinner"}, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, byTag, 1)
	assert.Equal(t, second.ID, byTag[0].ID)

	both, count, err := f.svc.List(ctx, RecipeFilter{TagSlugs: []string{"dinner", "breakfast"}, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	assert.Len(t, both, 2)

	// Author filter.
	byAuthor, count, err := f.svc.List(ctx, RecipeFilter{AuthorID: f.author.ID, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, first.ID, byAuthor[0].ID)
}

func TestRecipeListViewerRelativeFilters(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.author.ID, f.validInput())
	require.NoError(t, err)

	other := f.validInput()
	other.Name = "Soup"
	second, err := f.svc.Create(ctx, f.author.ID, other)
	require.NoError(t, err)

	ledger := NewLedgerService(f.db)
	_, err = ledger.AddFavorite(ctx, f.other.ID, first.ID)
	require.NoError(t, err)
	_, err = ledger.AddToCart(ctx, f.other.ID, second.ID)
	require.NoError(t, err)

	favorites, count, err := f.svc.List(ctx, RecipeFilter{Favorited: true, ViewerID: f.other.ID, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, favorites, 1)
	assert.Equal(t, first.ID, favorites[0].ID)

	inCart, count, err := f.svc.List(ctx, RecipeFilter{InCart: true, ViewerID: f.other.ID, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, inCart, 1)
	assert.Equal(t, second.ID, inCart[0].ID)

	// Anonymous viewers get the unfiltered listing.
	anonymous, count, err := f.svc.List(ctx, RecipeFilter{Favorited: true, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	assert.Len(t, anonymous, 2)
}

func TestRecipeViewerFlags(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	recipe, err := f.svc.Create(ctx, f.author.ID, f.validInput())
	require.NoError(t, err)

	ledger := NewLedgerService(f.db)
	_, err = ledger.AddFavorite(ctx, f.other.ID, recipe.ID)
	require.NoError(t, err)

	favorited, inCart, err := f.svc.ViewerFlags(ctx, f.other.ID, []uint{recipe.ID})
	require.NoError(t, err)
	assert.True(t, favorited[recipe.ID])
	assert.False(t, inCart[recipe.ID])

	// Anonymous viewer gets empty maps.
	favorited, inCart, err = f.svc.ViewerFlags(ctx, 0, []uint{recipe.ID})
	require.NoError(t, err)
	assert.Empty(t, favorited)
	assert.Empty(t, inCart)
}

func TestRecipeCountByAuthor(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.author.ID, f.validInput())
	require.NoError(t, err)

	second := f.validInput()
	second.Name = "Soup"
	_, err = f.svc.Create(ctx, f.author.ID, second)
	require.NoError(t, err)

	counts, err := f.svc.CountByAuthor(ctx, []uint{f.author.ID, f.other.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, counts[f.author.ID])
	assert.Zero(t, counts[f.other.ID])
}
