// File: internal/model/recipe.go
package model

import "github.com/shopspring/decimal"

type Recipe struct {
	ID            int             `db:"id" json:"id"`
	UserID        int             `db:"user_id" json:"-"`
	Title         string          `db:"title" json:"title"`
	TimeMinutes   int             `db:"time_minutes" json:"time_minutes"`
	Price         decimal.Decimal `db:"price" json:"price"`
	Link          string          `db:"link" json:"link"`
	Image         string          `db:"image" json:"image"`
	ImageBlurHash string          `db:"image_blurhash" json:"image_blurhash"`

	// 關聯以 id 集合表示，Tags / Ingredients 僅在明細查詢時載入
	TagIDs        []int        `json:"tags"`
	IngredientIDs []int        `json:"ingredients"`
	Tags          []Tag        `json:"-"`
	Ingredients   []Ingredient `json:"-"`
}

// RecipeFilter 列表篩選條件；同一欄位內為 OR，欄位之間為 AND
type RecipeFilter struct {
	TagIDs        []int
	IngredientIDs []int
}

// RecipePatch 描述一次更新；nil 欄位維持原值，非 nil 的關聯集合整組取代
type RecipePatch struct {
	Title         *string
	TimeMinutes   *int
	Price         *decimal.Decimal
	Link          *string
	TagIDs        *[]int
	IngredientIDs *[]int
}
