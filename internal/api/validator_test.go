package api

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCustomValidator(t *testing.T) {
	cv := NewValidator()

	err := cv.Validate(&CreateUserRequest{Email: "bad", Password: "123", Name: ""})
	require.Error(t, err)
	require.Contains(t, err.Error(), "email: enter a valid email address")
	require.Contains(t, err.Error(), "password: ensure this field has at least 5 characters")
	require.Contains(t, err.Error(), "name: this field is required")

	require.NoError(t, cv.Validate(&CreateUserRequest{Email: "a@example.com", Password: "12345", Name: "A"}))
}

func TestValidateTagRequest(t *testing.T) {
	cv := NewValidator()
	require.EqualError(t, cv.Validate(&TagRequest{}), "name: this field is required")
	require.NoError(t, cv.Validate(&TagRequest{Name: "Vegan"}))
}

func TestValidateRecipeRequest(t *testing.T) {
	cv := NewValidator()

	err := cv.Validate(&RecipeRequest{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "title: this field is required")
	require.Contains(t, err.Error(), "time_minutes: this field is required")
	require.Contains(t, err.Error(), "price: this field is required")

	price := decimal.RequireFromString("5.00")
	err = cv.Validate(&RecipeRequest{Title: ptr(""), TimeMinutes: ptr(-1), Price: &price})
	require.Error(t, err)
	require.Contains(t, err.Error(), "title: ensure this field has at least 1 characters")
	require.Contains(t, err.Error(), "time_minutes: ensure this value is greater than or equal to 0")

	err = cv.Validate(&RecipeRequest{Title: ptr("Soup"), TimeMinutes: ptr(5), Price: &price, Tags: &[]int{1, 0}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "tags[1]")

	err = cv.Validate(&RecipeRequest{Title: ptr("Soup"), TimeMinutes: ptr(99999999999), Price: &price})
	require.EqualError(t, err, "time_minutes: ensure this value is less than or equal to 2147483647")

	require.NoError(t, cv.Validate(&RecipeRequest{Title: ptr("Soup"), TimeMinutes: ptr(2147483647), Price: &price}))
}

func TestValidateRecipePatchRequest(t *testing.T) {
	cv := NewValidator()
	require.NoError(t, cv.Validate(&RecipePatchRequest{}))
	require.Error(t, cv.Validate(&RecipePatchRequest{Title: ptr("")}))
	require.NoError(t, cv.Validate(&RecipePatchRequest{Title: ptr("New"), Tags: &[]int{}}))
	require.Error(t, cv.Validate(&RecipePatchRequest{TimeMinutes: ptr(2147483648)}))
}
