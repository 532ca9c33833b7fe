package users

import (
	"errors"
	"net/http"
	"strings"

	"recipe-api/internal/api"
	"recipe-api/internal/database"
	"recipe-api/internal/middleware"
	"recipe-api/internal/model"
	"recipe-api/internal/service"
	"recipe-api/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	hashPassword = service.HashPassword
	createUser   = store.CreateUser
	getUserByID  = store.GetUserByID
	updateUser   = store.UpdateUser
)

// @Summary     Register a new user
// @Description 建立新帳號，Email 會轉為小寫，密碼至少 5 個字元
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body     api.CreateUserRequest true "註冊資料"
// @Success     201  {object} api.UserResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /users [post]
func CreateUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateUserRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to hash password").SetInternal(err)
		}

		user, err := createUser(c.Request().Context(), db, &model.User{
			Email:        strings.ToLower(req.Email),
			Name:         req.Name,
			PasswordHash: hash,
		})
		if errors.Is(err, store.ErrDuplicate) {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "email: user with this email already exists"})
		}
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to create user").SetInternal(err)
		}

		return c.JSON(http.StatusCreated, api.NewUserResponse(user))
	}
}

// @Summary     Get current user info
// @Description 透過 JWT Token 取得當前使用者詳細資訊
// @Tags        users
// @Produce     json
// @Success     200 {object} api.UserResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me [get]
func GetMeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := getUserByID(c.Request().Context(), db, middleware.UserID(c))
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "user not found"})
		}
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to load user").SetInternal(err)
		}
		return c.JSON(http.StatusOK, api.NewUserResponse(user))
	}
}

// @Summary     Update current user
// @Description 更新當前使用者的名稱和/或密碼，未提供的欄位維持原值
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body     api.UpdateMeRequest true "更新內容"
// @Success     200  {object} api.UserResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me [patch]
func UpdateMeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.UpdateMeRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		ctx := c.Request().Context()
		user, err := getUserByID(ctx, db, middleware.UserID(c))
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "user not found"})
		}
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to load user").SetInternal(err)
		}

		if req.Name != nil {
			user.Name = *req.Name
		}
		if req.Password != nil {
			hash, err := hashPassword(*req.Password)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "failed to hash password").SetInternal(err)
			}
			user.PasswordHash = hash
		}

		if err := updateUser(ctx, db, user); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "user not found"})
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to update user").SetInternal(err)
		}
		return c.JSON(http.StatusOK, api.NewUserResponse(user))
	}
}
