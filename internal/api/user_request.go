package api

// swagger:model api.CreateUserRequest
type CreateUserRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=255" example:"alice@example.com"`
	Password string `json:"password" form:"password" validate:"required,min=5" example:"Secret123!"`
	Name     string `json:"name" form:"name" validate:"required,max=255" example:"Alice"`
}

// swagger:model api.UpdateMeRequest
type UpdateMeRequest struct {
	Name     *string `json:"name" validate:"omitnil,min=1,max=255" example:"Alice"`
	Password *string `json:"password" validate:"omitnil,min=5" example:"NewSecret456!"`
}

// swagger:model api.TokenRequest
type TokenRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email" example:"alice@example.com"`
	Password string `json:"password" form:"password" validate:"required" example:"Secret123!"`
}

// swagger:model api.RefreshTokenRequest
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required" example:"c2VjcmV0..."`
}
