package recipes

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"recipe-api/internal/api"
	"recipe-api/internal/database"
	"recipe-api/internal/middleware"
	"recipe-api/internal/storage"
	"recipe-api/internal/store"

	"github.com/labstack/echo/v4"
)

var setRecipeImage = store.SetRecipeImage

// ImageStore 儲存上傳的圖片檔
type ImageStore interface {
	ImageURLs
	Save(data []byte) (string, error)
	Delete(ref string) error
}

// @Summary     Upload a recipe image
// @Description 上傳 JPEG / PNG / GIF / WebP 圖片，取代原有圖片；blurhash 於背景計算
// @Tags        recipes
// @Accept      multipart/form-data
// @Produce     json
// @Param       id    path     int  true "食譜 ID"
// @Param       image formData file true "圖片檔"
// @Success     200   {object} api.RecipeImageResponse
// @Failure     400   {object} api.ErrorResponse
// @Failure     401   {object} api.ErrorResponse
// @Failure     404   {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /recipes/{id}/image [post]
func UploadImageHandler(db database.DB, images ImageStore, jobs ImageJobs, maxBytes int64) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := recipeID(c)
		if !ok {
			return notFound(c)
		}
		ctx := c.Request().Context()
		userID := middleware.UserID(c)

		// 先確認食譜屬於當前使用者，避免替別人的食譜寫入檔案
		if _, err := getRecipe(ctx, db, userID, id); err != nil {
			return storeError(c, err, "get recipe")
		}

		fh, err := c.FormFile("image")
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "image: no file was submitted"})
		}
		if fh.Size > maxBytes {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{
				Message: fmt.Sprintf("image: file exceeds the %d byte limit", maxBytes),
			})
		}
		f, err := fh.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to read image").SetInternal(err)
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to read image").SetInternal(err)
		}
		if len(data) == 0 {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "image: the submitted file is empty"})
		}

		ref, err := images.Save(data)
		if errors.Is(err, storage.ErrInvalidImage) {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "image: " + err.Error()})
		}
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to save image").SetInternal(err)
		}

		prev, err := setRecipeImage(ctx, db, userID, id, ref)
		if err != nil {
			if derr := images.Delete(ref); derr != nil {
				c.Logger().Errorf("failed to remove orphan image %s: %v", ref, derr)
			}
			return storeError(c, err, "update recipe image")
		}

		jobs.AfterUpload(id, ref, prev)
		return c.JSON(http.StatusOK, api.NewRecipeImageResponse(id, images.URL(ref)))
	}
}
