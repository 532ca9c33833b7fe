package api

import "recipe-api/internal/model"

// TagRequest 同時用於建立標籤與食材
// swagger:model api.TagRequest
type TagRequest struct {
	Name string `json:"name" form:"name" validate:"required,max=255" example:"Vegan"`
}

// swagger:model api.TagResponse
type TagResponse struct {
	ID   int    `json:"id" example:"1"`
	Name string `json:"name" example:"Vegan"`
}

// swagger:model api.IngredientResponse
type IngredientResponse struct {
	ID   int    `json:"id" example:"1"`
	Name string `json:"name" example:"Salt"`
}

func NewTagResponse(t model.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name}
}

func NewIngredientResponse(in model.Ingredient) IngredientResponse {
	return IngredientResponse{ID: in.ID, Name: in.Name}
}

func NewTagResponses(tags []model.Tag) []TagResponse {
	out := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, NewTagResponse(t))
	}
	return out
}

func NewIngredientResponses(ins []model.Ingredient) []IngredientResponse {
	out := make([]IngredientResponse, 0, len(ins))
	for _, in := range ins {
		out = append(out, NewIngredientResponse(in))
	}
	return out
}
