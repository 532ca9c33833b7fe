package recipes

import (
	"net/http"
	"strconv"

	"recipe-api/internal/api"
	"recipe-api/internal/database"
	"recipe-api/internal/middleware"
	"recipe-api/internal/model"
	"recipe-api/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	listRecipes  = store.ListRecipes
	getRecipe    = store.GetRecipe
	createRecipe = store.CreateRecipe
	updateRecipe = store.UpdateRecipe
	deleteRecipe = store.DeleteRecipe
)

// ImageURLs 將圖片參照轉為對外網址
type ImageURLs interface {
	URL(ref string) string
}

// ImageJobs 是食譜圖片的背景工作
type ImageJobs interface {
	AfterUpload(recipeID int, ref, prev string)
	Remove(ref string)
}

// recipeID 解析路徑上的食譜 id；非正整數視同不存在
func recipeID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func notFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "not found"})
}

// @Summary     List recipes
// @Description 依 id 由新到舊列出當前使用者的食譜；tags / ingredients 為逗號分隔的 id，同一參數內任一符合即可，兩者同時提供時取交集
// @Tags        recipes
// @Produce     json
// @Param       tags        query    string false "標籤 id，例如 1,2"
// @Param       ingredients query    string false "食材 id，例如 3,4"
// @Success     200         {array}  api.RecipeResponse
// @Failure     400         {object} api.ErrorResponse
// @Failure     401         {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipes [get]
func ListRecipesHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		tags, err := api.ParseIDList(c.QueryParam("tags"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "tags: " + err.Error()})
		}
		ingredients, err := api.ParseIDList(c.QueryParam("ingredients"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "ingredients: " + err.Error()})
		}

		recipes, err := listRecipes(c.Request().Context(), db, middleware.UserID(c), model.RecipeFilter{
			TagIDs:        tags,
			IngredientIDs: ingredients,
		})
		if err != nil {
			return storeError(c, err, "list recipes")
		}
		return c.JSON(http.StatusOK, api.NewRecipeResponses(recipes))
	}
}

// @Summary     Get a recipe
// @Description 回傳單筆食譜，標籤與食材展開為 {id, name}
// @Tags        recipes
// @Produce     json
// @Param       id  path     int true "食譜 ID"
// @Success     200 {object} api.RecipeDetailResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipes/{id} [get]
func GetRecipeHandler(db database.DB, images ImageURLs) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := recipeID(c)
		if !ok {
			return notFound(c)
		}
		r, err := getRecipe(c.Request().Context(), db, middleware.UserID(c), id)
		if err != nil {
			return storeError(c, err, "get recipe")
		}
		return c.JSON(http.StatusOK, api.NewRecipeDetailResponse(r, images.URL))
	}
}

// @Summary     Create a recipe
// @Description tags / ingredients 必須屬於當前使用者
// @Tags        recipes
// @Accept      json
// @Produce     json
// @Param       body body     api.RecipeRequest true "食譜內容"
// @Success     201  {object} api.RecipeResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipes [post]
func CreateRecipeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RecipeRequest
		if err := bindRecipe(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}
		r, err := createRecipe(c.Request().Context(), db, req.ToRecipe(middleware.UserID(c)))
		if err != nil {
			return storeError(c, err, "create recipe")
		}
		return c.JSON(http.StatusCreated, api.NewRecipeResponse(r))
	}
}

// @Summary     Replace a recipe
// @Description 完整更新；未提供的 tags / ingredients 會被清空
// @Tags        recipes
// @Accept      json
// @Produce     json
// @Param       id   path     int               true "食譜 ID"
// @Param       body body     api.RecipeRequest true "食譜內容"
// @Success     200  {object} api.RecipeResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipes/{id} [put]
func UpdateRecipeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := recipeID(c)
		if !ok {
			return notFound(c)
		}
		var req api.RecipeRequest
		if err := bindRecipe(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}
		r, err := updateRecipe(c.Request().Context(), db, middleware.UserID(c), id, req.ToPatch())
		if err != nil {
			return storeError(c, err, "update recipe")
		}
		return c.JSON(http.StatusOK, api.NewRecipeResponse(r))
	}
}

// @Summary     Partially update a recipe
// @Description 只更新有提供的欄位；提供 tags / ingredients 時整組取代
// @Tags        recipes
// @Accept      json
// @Produce     json
// @Param       id   path     int                    true "食譜 ID"
// @Param       body body     api.RecipePatchRequest true "要更新的欄位"
// @Success     200  {object} api.RecipeResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipes/{id} [patch]
func PatchRecipeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := recipeID(c)
		if !ok {
			return notFound(c)
		}
		var req api.RecipePatchRequest
		if err := bindRecipe(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}
		r, err := updateRecipe(c.Request().Context(), db, middleware.UserID(c), id, req.ToPatch())
		if err != nil {
			return storeError(c, err, "update recipe")
		}
		return c.JSON(http.StatusOK, api.NewRecipeResponse(r))
	}
}

// @Summary     Delete a recipe
// @Description 刪除食譜並移除其圖片檔
// @Tags        recipes
// @Param       id  path int true "食譜 ID"
// @Success     204 "No Content"
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipes/{id} [delete]
func DeleteRecipeHandler(db database.DB, jobs ImageJobs) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := recipeID(c)
		if !ok {
			return notFound(c)
		}
		image, err := deleteRecipe(c.Request().Context(), db, middleware.UserID(c), id)
		if err != nil {
			return storeError(c, err, "delete recipe")
		}
		jobs.Remove(image)
		return c.NoContent(http.StatusNoContent)
	}
}

type recipeRequest interface {
	Normalize()
	Check() error
}

// bindRecipe 依序綁定、去除標題空白、驗證並檢查價格
func bindRecipe(c echo.Context, req recipeRequest) error {
	if err := c.Bind(req); err != nil {
		return errInvalidBody
	}
	req.Normalize()
	if err := c.Validate(req); err != nil {
		return err
	}
	return req.Check()
}
