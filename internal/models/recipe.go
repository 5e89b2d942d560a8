package models

import (
	"time"
)

type Recipe struct {
	ID          uint                 `gorm:"primarykey" json:"id"`
	AuthorID    uint                 `gorm:"not null;index" json:"author_id"`
	Author      User                 `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Name        string               `gorm:"size:200;not null" json:"name"`
	Text        string               `gorm:"type:text;not null" json:"text"`
	ImageURL    string               `gorm:"size:255;not null" json:"image"`
	CookingTime int                  `gorm:"not null" json:"cooking_time"`
	PubDate     time.Time            `gorm:"autoCreateTime" json:"pub_date"`
	Tags        []Tag                `gorm:"many2many:recipe_tags" json:"tags"`
	Ingredients []IngredientInRecipe `gorm:"foreignKey:RecipeID" json:"ingredients"`
}

// RecipeTag is the recipe/tag join table. Rows are written explicitly by
// the composer (wholesale replace on update) and read back through the
// Tags association.
type RecipeTag struct {
	RecipeID uint `gorm:"primaryKey"`
	TagID    uint `gorm:"primaryKey"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}

// IngredientInRecipe links a recipe to an ingredient and carries the
// quantity. One row per (recipe, ingredient) pair; the composer rejects
// duplicates before they reach the table.
type IngredientInRecipe struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	RecipeID     uint       `gorm:"not null;index" json:"-"`
	IngredientID uint       `gorm:"not null;index" json:"ingredient_id"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"-"`
	Amount       int        `gorm:"not null" json:"amount"`
}

// Favorite is a membership record with no payload beyond the pair.
type Favorite struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_favorite_pair" json:"recipe_id"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_favorite_pair" json:"author_id"`
	Recipe    Recipe    `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

// Cart mirrors Favorite as an independent membership set.
type Cart struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_cart_pair" json:"recipe_id"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_cart_pair" json:"author_id"`
	Recipe    Recipe    `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}
