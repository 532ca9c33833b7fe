package api

import (
	"errors"
	"strings"

	"recipe-api/internal/model"

	"github.com/shopspring/decimal"
)

// maxPrice 對應資料庫 NUMERIC(5,2)
var maxPrice = decimal.RequireFromString("999.99")

// RecipeRequest 用於建立（POST）與完整更新（PUT）
// swagger:model api.RecipeRequest
type RecipeRequest struct {
	Title       *string          `json:"title" validate:"required,min=1,max=255" example:"Steak and mushroom sauce"`
	TimeMinutes *int             `json:"time_minutes" validate:"required,gte=0,lte=2147483647" example:"10"`
	Price       *decimal.Decimal `json:"price" validate:"required" swaggertype:"string" example:"5.00"`
	Link        *string          `json:"link" validate:"omitnil,max=255" example:"https://example.com/steak"`
	Tags        *[]int           `json:"tags" validate:"omitnil,dive,gt=0"`
	Ingredients *[]int           `json:"ingredients" validate:"omitnil,dive,gt=0"`
}

// RecipePatchRequest 用於部分更新（PATCH），未提供的欄位維持原值
// swagger:model api.RecipePatchRequest
type RecipePatchRequest struct {
	Title       *string          `json:"title" validate:"omitnil,min=1,max=255" example:"Steak and mushroom sauce"`
	TimeMinutes *int             `json:"time_minutes" validate:"omitnil,gte=0,lte=2147483647" example:"10"`
	Price       *decimal.Decimal `json:"price" swaggertype:"string" example:"5.00"`
	Link        *string          `json:"link" validate:"omitnil,max=255" example:"https://example.com/steak"`
	Tags        *[]int           `json:"tags" validate:"omitnil,dive,gt=0"`
	Ingredients *[]int           `json:"ingredients" validate:"omitnil,dive,gt=0"`
}

// CheckPrice 價格需為非負、最多兩位小數且不超過 999.99
func CheckPrice(p decimal.Decimal) error {
	switch {
	case p.IsNegative():
		return errors.New("price: ensure this value is greater than or equal to 0")
	case !p.Equal(p.Truncate(2)):
		return errors.New("price: ensure that there are no more than 2 decimal places")
	case p.GreaterThan(maxPrice):
		return errors.New("price: ensure that there are no more than 5 digits in total")
	}
	return nil
}

// trimTitle 去除前後空白，只有空白的標題因此無法通過 min=1
func trimTitle(title *string) {
	if title != nil {
		*title = strings.TrimSpace(*title)
	}
}

func (r *RecipeRequest) Normalize() { trimTitle(r.Title) }

func (r *RecipePatchRequest) Normalize() { trimTitle(r.Title) }

func (r *RecipeRequest) Check() error {
	return CheckPrice(*r.Price)
}

func (r *RecipePatchRequest) Check() error {
	if r.Price == nil {
		return nil
	}
	return CheckPrice(*r.Price)
}

// ToRecipe 轉為新食譜；未提供的關聯視為空集合
func (r *RecipeRequest) ToRecipe(userID int) *model.Recipe {
	rec := &model.Recipe{
		UserID:      userID,
		Title:       *r.Title,
		TimeMinutes: *r.TimeMinutes,
		Price:       *r.Price,
	}
	if r.Link != nil {
		rec.Link = *r.Link
	}
	if r.Tags != nil {
		rec.TagIDs = *r.Tags
	}
	if r.Ingredients != nil {
		rec.IngredientIDs = *r.Ingredients
	}
	return rec
}

// ToPatch 完整更新：未提供的 tags / ingredients 會被清空
func (r *RecipeRequest) ToPatch() model.RecipePatch {
	tags, ingredients := []int{}, []int{}
	if r.Tags != nil {
		tags = *r.Tags
	}
	if r.Ingredients != nil {
		ingredients = *r.Ingredients
	}
	return model.RecipePatch{
		Title:         r.Title,
		TimeMinutes:   r.TimeMinutes,
		Price:         r.Price,
		Link:          r.Link,
		TagIDs:        &tags,
		IngredientIDs: &ingredients,
	}
}

func (r *RecipePatchRequest) ToPatch() model.RecipePatch {
	return model.RecipePatch{
		Title:         r.Title,
		TimeMinutes:   r.TimeMinutes,
		Price:         r.Price,
		Link:          r.Link,
		TagIDs:        r.Tags,
		IngredientIDs: r.Ingredients,
	}
}
