package recipes

import (
	"errors"
	"net/http"

	"recipe-api/internal/api"
	"recipe-api/internal/store"

	"github.com/labstack/echo/v4"
)

var errInvalidBody = errors.New("invalid request body")

// storeError 將 store 的哨兵錯誤轉成 HTTP 回應；其餘錯誤交給 echo 以 500 處理
func storeError(c echo.Context, err error, op string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "not found"})
	case errors.Is(err, store.ErrInvalidTags):
		return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "tags: invalid pk - object does not exist"})
	case errors.Is(err, store.ErrInvalidIngredients):
		return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "ingredients: invalid pk - object does not exist"})
	case errors.Is(err, store.ErrDuplicate):
		return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "name: already exists"})
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to "+op).SetInternal(err)
	}
}
