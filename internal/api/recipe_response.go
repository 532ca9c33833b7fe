package api

import "recipe-api/internal/model"

// RecipeResponse 是列表、建立與更新的回應，關聯以 id 表示
// swagger:model api.RecipeResponse
type RecipeResponse struct {
	ID          int    `json:"id" example:"1"`
	Title       string `json:"title" example:"Steak and mushroom sauce"`
	TimeMinutes int    `json:"time_minutes" example:"10"`
	Price       string `json:"price" example:"5.00"`
	Link        string `json:"link" example:""`
	Tags        []int  `json:"tags"`
	Ingredients []int  `json:"ingredients"`
}

// RecipeDetailResponse 是單筆查詢的回應，關聯展開為 {id, name}
// swagger:model api.RecipeDetailResponse
type RecipeDetailResponse struct {
	ID            int                  `json:"id" example:"1"`
	Title         string               `json:"title" example:"Steak and mushroom sauce"`
	TimeMinutes   int                  `json:"time_minutes" example:"10"`
	Price         string               `json:"price" example:"5.00"`
	Link          string               `json:"link" example:""`
	Image         *string              `json:"image" example:"/media/uploads/recipe/0b6c.jpg"`
	ImageBlurHash string               `json:"image_blurhash" example:"LKO2?U%2Tw=w]~RBVZRi};RPxuwH"`
	Tags          []TagResponse        `json:"tags"`
	Ingredients   []IngredientResponse `json:"ingredients"`
}

// swagger:model api.RecipeImageResponse
type RecipeImageResponse struct {
	ID    int    `json:"id" example:"1"`
	Image string `json:"image" example:"/media/uploads/recipe/0b6c.jpg"`
}

func nonNil(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}

func NewRecipeResponse(r *model.Recipe) RecipeResponse {
	return RecipeResponse{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price.StringFixed(2),
		Link:        r.Link,
		Tags:        nonNil(r.TagIDs),
		Ingredients: nonNil(r.IngredientIDs),
	}
}

func NewRecipeResponses(rs []model.Recipe) []RecipeResponse {
	out := make([]RecipeResponse, 0, len(rs))
	for i := range rs {
		out = append(out, NewRecipeResponse(&rs[i]))
	}
	return out
}

// NewRecipeDetailResponse 以 imageURL 將圖片參照轉為對外路徑；沒有圖片時 image 為 null
func NewRecipeDetailResponse(r *model.Recipe, imageURL func(string) string) RecipeDetailResponse {
	resp := RecipeDetailResponse{
		ID:            r.ID,
		Title:         r.Title,
		TimeMinutes:   r.TimeMinutes,
		Price:         r.Price.StringFixed(2),
		Link:          r.Link,
		ImageBlurHash: r.ImageBlurHash,
		Tags:          NewTagResponses(r.Tags),
		Ingredients:   NewIngredientResponses(r.Ingredients),
	}
	if r.Image != "" {
		u := imageURL(r.Image)
		resp.Image = &u
	}
	return resp
}

func NewRecipeImageResponse(id int, url string) RecipeImageResponse {
	return RecipeImageResponse{ID: id, Image: url}
}
