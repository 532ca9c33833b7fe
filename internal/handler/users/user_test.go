package users

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recipe-api/internal/database"
	"recipe-api/internal/middleware"
	"recipe-api/internal/model"
	"recipe-api/internal/service"
	"recipe-api/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type stubValidator struct{ err error }

func (s *stubValidator) Validate(i interface{}) error { return s.err }

func newJSONCtx(e *echo.Echo, method, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newMeCtx(e *echo.Echo, method, body string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := newJSONCtx(e, method, body)
	c.Set(middleware.ContextUserKey, &service.CustomClaims{UserID: 7})
	return c, rec
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, code, he.Code)
}

func restore() {
	hashPassword = service.HashPassword
	createUser = store.CreateUser
	getUserByID = store.GetUserByID
	updateUser = store.UpdateUser
	getUserByEmail = store.GetUserByEmail
	authenticateUser = service.AuthenticateUser
	issueAccessToken = service.IssueAccessToken
	issueRefreshToken = service.IssueRefreshToken
	validateRefreshToken = service.ValidateRefreshToken
	revokeRefreshToken = service.RevokeRefreshToken
}

func sampleUser() *model.User {
	return &model.User{
		ID:           7,
		Email:        "alice@example.com",
		Name:         "Alice",
		PasswordHash: "hash",
		IsActive:     true,
		CreatedAt:    time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateUserHandler(t *testing.T) {
	e := echo.New()
	body := `{"email":"Alice@Example.com","password":"secret","name":"Alice"}`

	t.Run("bind error", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		ctx, rec := newJSONCtx(e, http.MethodPost, "{")
		require.NoError(t, CreateUserHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid request body")
	})

	t.Run("validation error", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{err: errors.New("password: ensure this field has at least 5 characters")}
		ctx, rec := newJSONCtx(e, http.MethodPost, `{"email":"a@example.com","password":"pw","name":"A"}`)
		require.NoError(t, CreateUserHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "password")
	})

	t.Run("hash error", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		hashPassword = func(string) (string, error) { return "", errors.New("hash") }
		ctx, _ := newJSONCtx(e, http.MethodPost, body)
		requireHTTPError(t, CreateUserHandler(nil)(ctx), http.StatusInternalServerError)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		hashPassword = func(string) (string, error) { return "h", nil }
		createUser = func(context.Context, database.DB, *model.User) (*model.User, error) {
			return nil, store.ErrDuplicate
		}
		ctx, rec := newJSONCtx(e, http.MethodPost, body)
		require.NoError(t, CreateUserHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "already exists")
	})

	t.Run("store error", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		hashPassword = func(string) (string, error) { return "h", nil }
		createUser = func(context.Context, database.DB, *model.User) (*model.User, error) {
			return nil, errors.New("db")
		}
		ctx, _ := newJSONCtx(e, http.MethodPost, body)
		requireHTTPError(t, CreateUserHandler(nil)(ctx), http.StatusInternalServerError)
	})

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		hashPassword = func(pw string) (string, error) {
			require.Equal(t, "secret", pw)
			return "h", nil
		}
		createUser = func(_ context.Context, _ database.DB, u *model.User) (*model.User, error) {
			require.Equal(t, "alice@example.com", u.Email)
			require.Equal(t, "h", u.PasswordHash)
			u.ID = 7
			return u, nil
		}
		ctx, rec := newJSONCtx(e, http.MethodPost, body)
		require.NoError(t, CreateUserHandler(nil)(ctx))
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Contains(t, rec.Body.String(), `"id":7`)
		require.NotContains(t, rec.Body.String(), "password")
	})
}

func TestGetMeHandler(t *testing.T) {
	e := echo.New()

	t.Run("not found", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByID = func(context.Context, database.DB, int) (*model.User, error) {
			return nil, store.ErrNotFound
		}
		ctx, rec := newMeCtx(e, http.MethodGet, "")
		require.NoError(t, GetMeHandler(nil)(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("store error", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByID = func(context.Context, database.DB, int) (*model.User, error) {
			return nil, errors.New("db")
		}
		ctx, _ := newMeCtx(e, http.MethodGet, "")
		requireHTTPError(t, GetMeHandler(nil)(ctx), http.StatusInternalServerError)
	})

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByID = func(_ context.Context, _ database.DB, id int) (*model.User, error) {
			require.Equal(t, 7, id)
			return sampleUser(), nil
		}
		ctx, rec := newMeCtx(e, http.MethodGet, "")
		require.NoError(t, GetMeHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "alice@example.com")
	})
}

func TestUpdateMeHandler(t *testing.T) {
	e := echo.New()

	t.Run("bind error", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		ctx, rec := newMeCtx(e, http.MethodPatch, "{")
		require.NoError(t, UpdateMeHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation error", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{err: errors.New("password: too short")}
		ctx, rec := newMeCtx(e, http.MethodPatch, `{"password":"1"}`)
		require.NoError(t, UpdateMeHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("name only", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		getUserByID = func(context.Context, database.DB, int) (*model.User, error) { return sampleUser(), nil }
		hashPassword = func(string) (string, error) {
			t.Fatal("password should not be hashed")
			return "", nil
		}
		var saved *model.User
		updateUser = func(_ context.Context, _ database.DB, u *model.User) error {
			saved = u
			return nil
		}
		ctx, rec := newMeCtx(e, http.MethodPatch, `{"name":"Bob"}`)
		require.NoError(t, UpdateMeHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "Bob", saved.Name)
		require.Equal(t, "hash", saved.PasswordHash)
		require.Contains(t, rec.Body.String(), `"name":"Bob"`)
	})

	t.Run("password", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		getUserByID = func(context.Context, database.DB, int) (*model.User, error) { return sampleUser(), nil }
		hashPassword = func(string) (string, error) { return "newhash", nil }
		var saved *model.User
		updateUser = func(_ context.Context, _ database.DB, u *model.User) error {
			saved = u
			return nil
		}
		ctx, rec := newMeCtx(e, http.MethodPatch, `{"password":"newpass"}`)
		require.NoError(t, UpdateMeHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "Alice", saved.Name)
		require.Equal(t, "newhash", saved.PasswordHash)
	})

	t.Run("hash error", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		getUserByID = func(context.Context, database.DB, int) (*model.User, error) { return sampleUser(), nil }
		hashPassword = func(string) (string, error) { return "", errors.New("hash") }
		ctx, _ := newMeCtx(e, http.MethodPatch, `{"password":"newpass"}`)
		requireHTTPError(t, UpdateMeHandler(nil)(ctx), http.StatusInternalServerError)
	})

	t.Run("user gone", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		getUserByID = func(context.Context, database.DB, int) (*model.User, error) { return sampleUser(), nil }
		updateUser = func(context.Context, database.DB, *model.User) error {
			return store.ErrNotFound
		}
		ctx, rec := newMeCtx(e, http.MethodPatch, `{"name":"Bob"}`)
		require.NoError(t, UpdateMeHandler(nil)(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("update error", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		getUserByID = func(context.Context, database.DB, int) (*model.User, error) { return sampleUser(), nil }
		updateUser = func(context.Context, database.DB, *model.User) error { return errors.New("db") }
		ctx, _ := newMeCtx(e, http.MethodPatch, `{"name":"Bob"}`)
		requireHTTPError(t, UpdateMeHandler(nil)(ctx), http.StatusInternalServerError)
	})
}
