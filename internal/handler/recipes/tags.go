package recipes

import (
	"net/http"
	"strings"

	"recipe-api/internal/api"
	"recipe-api/internal/database"
	"recipe-api/internal/middleware"
	"recipe-api/internal/model"
	"recipe-api/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	listTags         = store.ListTags
	createTag        = store.CreateTag
	listIngredients  = store.ListIngredients
	createIngredient = store.CreateIngredient
)

// @Summary     List tags
// @Description 列出當前使用者的標籤，依名稱反向排序
// @Tags        tags
// @Produce     json
// @Param       assigned_only query    int false "1 表示只列出已被食譜使用的標籤"
// @Success     200           {array}  api.TagResponse
// @Failure     401           {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /tags [get]
func ListTagsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		tags, err := listTags(c.Request().Context(), db, middleware.UserID(c), api.ParseFlag(c.QueryParam("assigned_only")))
		if err != nil {
			return storeError(c, err, "list tags")
		}
		return c.JSON(http.StatusOK, api.NewTagResponses(tags))
	}
}

// @Summary     Create a tag
// @Tags        tags
// @Accept      json
// @Produce     json
// @Param       body body     api.TagRequest true "標籤名稱"
// @Success     201  {object} api.TagResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /tags [post]
func CreateTagHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		name, err := bindName(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}
		tag, err := createTag(c.Request().Context(), db, &model.Tag{UserID: middleware.UserID(c), Name: name})
		if err != nil {
			return storeError(c, err, "create tag")
		}
		return c.JSON(http.StatusCreated, api.NewTagResponse(*tag))
	}
}

// @Summary     List ingredients
// @Description 列出當前使用者的食材，依名稱反向排序
// @Tags        ingredients
// @Produce     json
// @Param       assigned_only query    int false "1 表示只列出已被食譜使用的食材"
// @Success     200           {array}  api.IngredientResponse
// @Failure     401           {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /ingredients [get]
func ListIngredientsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ins, err := listIngredients(c.Request().Context(), db, middleware.UserID(c), api.ParseFlag(c.QueryParam("assigned_only")))
		if err != nil {
			return storeError(c, err, "list ingredients")
		}
		return c.JSON(http.StatusOK, api.NewIngredientResponses(ins))
	}
}

// @Summary     Create an ingredient
// @Tags        ingredients
// @Accept      json
// @Produce     json
// @Param       body body     api.TagRequest true "食材名稱"
// @Success     201  {object} api.IngredientResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /ingredients [post]
func CreateIngredientHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		name, err := bindName(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}
		in, err := createIngredient(c.Request().Context(), db, &model.Ingredient{UserID: middleware.UserID(c), Name: name})
		if err != nil {
			return storeError(c, err, "create ingredient")
		}
		return c.JSON(http.StatusCreated, api.NewIngredientResponse(*in))
	}
}

// bindName 綁定並驗證名稱；前後空白會被去除，去除後為空視為未提供
func bindName(c echo.Context) (string, error) {
	var req api.TagRequest
	if err := c.Bind(&req); err != nil {
		return "", errInvalidBody
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := c.Validate(&req); err != nil {
		return "", err
	}
	return req.Name, nil
}
