package users

import (
	"errors"
	"net/http"
	"time"

	"recipe-api/internal/api"
	"recipe-api/internal/cache"
	"recipe-api/internal/database"
	"recipe-api/internal/model"
	"recipe-api/internal/service"
	"recipe-api/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	getUserByEmail       = store.GetUserByEmail
	authenticateUser     = service.AuthenticateUser
	issueAccessToken     = service.IssueAccessToken
	issueRefreshToken    = service.IssueRefreshToken
	validateRefreshToken = service.ValidateRefreshToken
	revokeRefreshToken   = service.RevokeRefreshToken
)

const invalidCredentials = "unable to authenticate with provided credentials"

// TokenTTL 是 access / refresh token 的有效期限
type TokenTTL struct {
	Access  time.Duration
	Refresh time.Duration
}

func issueTokens(c echo.Context, cch cache.Cache, user model.User, ttl TokenTTL) error {
	access, err := issueAccessToken(user, ttl.Access)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to issue token").SetInternal(err)
	}
	refresh, err := issueRefreshToken(c.Request().Context(), cch, user.ID, ttl.Refresh)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to issue refresh token").SetInternal(err)
	}
	return c.JSON(http.StatusOK, api.TokenResponse{
		AccessToken:  access,
		TokenType:    "Bearer",
		ExpiresIn:    int(ttl.Access.Seconds()),
		RefreshToken: refresh,
	})
}

// @Summary     Obtain tokens
// @Description 以 Email 與密碼換取 access token 與 refresh token
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body     api.TokenRequest true "登入資料"
// @Success     200  {object} api.TokenResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     429  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /users/token [post]
func TokenHandler(db database.DB, cch cache.Cache, ttl TokenTTL) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.TokenRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		ctx := c.Request().Context()
		user, err := getUserByEmail(ctx, db, req.Email)
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: invalidCredentials})
		}
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to load user").SetInternal(err)
		}
		if err := authenticateUser(ctx, *user, req.Password); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: invalidCredentials})
		}

		return issueTokens(c, cch, *user, ttl)
	}
}

// @Summary     Refresh tokens
// @Description 以 refresh token 換取新的一組 token；舊的 refresh token 立即失效
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body     api.RefreshTokenRequest true "refresh token"
// @Success     200  {object} api.TokenResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /users/token/refresh [post]
func RefreshTokenHandler(db database.DB, cch cache.Cache, ttl TokenTTL) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RefreshTokenRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		ctx := c.Request().Context()
		data, err := validateRefreshToken(ctx, cch, req.RefreshToken)
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid refresh token"})
		}
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to read refresh token").SetInternal(err)
		}

		// 併發使用同一 token 時只有一個請求能刪除成功
		if err := revokeRefreshToken(ctx, cch, req.RefreshToken); err != nil {
			if errors.Is(err, service.ErrInvalidRefreshToken) {
				return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid refresh token"})
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to revoke refresh token").SetInternal(err)
		}

		user, err := getUserByID(ctx, db, data.UserID)
		if errors.Is(err, store.ErrNotFound) || (err == nil && !user.IsActive) {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid refresh token"})
		}
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to load user").SetInternal(err)
		}

		return issueTokens(c, cch, *user, ttl)
	}
}
