package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"recipe-api/internal/database"
	"recipe-api/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func recipeVals(id int, title string, tags, ingredients []int) []any {
	return []any{id, 5, title, 10, decimal.RequireFromString("5.50"), "", "", "", tags, ingredients}
}

func TestListRecipes(t *testing.T) {
	ctx := context.Background()

	t.Run("no filter", func(t *testing.T) {
		db := &database.FakeDB{
			QueryFn: func(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
				require.Contains(t, sql, "ORDER BY r.id DESC")
				require.Equal(t, []any{5, []int(nil), []int(nil)}, args)
				return &fakeRows{rows: [][]any{
					recipeVals(2, "Soup", []int{1, 3}, []int{}),
					recipeVals(1, "Cake", nil, nil),
				}}, nil
			},
		}
		out, err := ListRecipes(ctx, db, 5, model.RecipeFilter{})
		require.NoError(t, err)
		require.Len(t, out, 2)
		require.Equal(t, 2, out[0].ID)
		require.Equal(t, []int{1, 3}, out[0].TagIDs)
		require.Equal(t, "5.5", out[0].Price.String())
		require.Equal(t, []int{}, out[1].TagIDs)
		require.Equal(t, []int{}, out[1].IngredientIDs)
	})

	t.Run("filters", func(t *testing.T) {
		db := &database.FakeDB{
			QueryFn: func(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
				require.Equal(t, []any{5, []int{1, 2}, []int{3}}, args)
				return &fakeRows{}, nil
			},
		}
		out, err := ListRecipes(ctx, db, 5, model.RecipeFilter{TagIDs: []int{1, 2}, IngredientIDs: []int{3}})
		require.NoError(t, err)
		require.NotNil(t, out)
		require.Empty(t, out)
	})

	t.Run("errors", func(t *testing.T) {
		db := &database.FakeDB{
			QueryFn: func(context.Context, string, ...any) (pgx.Rows, error) {
				return nil, errors.New("boom")
			},
		}
		_, err := ListRecipes(ctx, db, 5, model.RecipeFilter{})
		require.EqualError(t, err, "ListRecipes: boom")

		db.QueryFn = func(context.Context, string, ...any) (pgx.Rows, error) {
			return &fakeRows{rows: [][]any{recipeVals(1, "a", nil, nil)}, scanErr: errors.New("scan")}, nil
		}
		_, err = ListRecipes(ctx, db, 5, model.RecipeFilter{})
		require.EqualError(t, err, "ListRecipes: scan")

		db.QueryFn = func(context.Context, string, ...any) (pgx.Rows, error) {
			return &fakeRows{err: errors.New("rows")}, nil
		}
		_, err = ListRecipes(ctx, db, 5, model.RecipeFilter{})
		require.EqualError(t, err, "ListRecipes: rows")
	})
}

func TestGetRecipe(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				require.Equal(t, []any{2, 5}, args)
				return &fakeRow{vals: recipeVals(2, "Soup", []int{1}, []int{4})}
			},
			QueryFn: func(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
				require.Equal(t, []any{2}, args)
				if strings.Contains(sql, "FROM tags l") {
					return &fakeRows{rows: [][]any{{1, "Vegan"}}}, nil
				}
				return &fakeRows{rows: [][]any{{4, "Salt"}}}, nil
			},
		}
		r, err := GetRecipe(ctx, db, 5, 2)
		require.NoError(t, err)
		require.Equal(t, "Soup", r.Title)
		require.Equal(t, []model.Tag{{ID: 1, UserID: 5, Name: "Vegan"}}, r.Tags)
		require.Equal(t, []model.Ingredient{{ID: 4, UserID: 5, Name: "Salt"}}, r.Ingredients)
	})

	t.Run("not found", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(context.Context, string, ...any) pgx.Row {
				return &fakeRow{err: pgx.ErrNoRows}
			},
		}
		_, err := GetRecipe(ctx, db, 5, 2)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("relation error", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(context.Context, string, ...any) pgx.Row {
				return &fakeRow{vals: recipeVals(2, "Soup", nil, nil)}
			},
			QueryFn: func(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
				if strings.Contains(sql, "FROM ingredients l") {
					return nil, errors.New("boom")
				}
				return &fakeRows{}, nil
			},
		}
		_, err := GetRecipe(ctx, db, 5, 2)
		require.EqualError(t, err, "GetRecipe: boom")
	})
}

// recipeTx 回傳一個依 SQL 內容回應的 FakeTx，並記錄執行過的 Exec 語句
func recipeTx(owned int, stmts *[]string) *database.FakeTx {
	tx := &database.FakeTx{}
	tx.QueryRowFn = func(_ context.Context, sql string, args ...any) pgx.Row {
		switch {
		case strings.Contains(sql, "count(*)"):
			return &fakeRow{vals: []any{owned}}
		case strings.Contains(sql, "INSERT INTO recipes"):
			return &fakeRow{vals: []any{42, "", ""}}
		case strings.Contains(sql, "UPDATE recipes"):
			return &fakeRow{vals: recipeVals(42, "New", []int{}, []int{})}
		default:
			return &fakeRow{vals: []any{[]int{1, 2}, []int{7}}}
		}
	}
	tx.ExecFn = func(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
		*stmts = append(*stmts, sql)
		return pgconn.CommandTag{}, nil
	}
	return tx
}

func TestCreateRecipe(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		var stmts []string
		tx := recipeTx(2, &stmts)
		r, err := CreateRecipe(ctx, database.TxDB(tx), &model.Recipe{
			UserID:        5,
			Title:         "Soup",
			TimeMinutes:   10,
			Price:         decimal.RequireFromString("5.00"),
			TagIDs:        []int{2, 1, 2},
			IngredientIDs: nil,
		})
		require.NoError(t, err)
		require.Equal(t, 42, r.ID)
		require.Equal(t, []int{1, 2}, r.TagIDs)
		require.Equal(t, []int{}, r.IngredientIDs)
		require.True(t, tx.Committed)
		// tags: delete + insert, ingredients: delete only
		require.Len(t, stmts, 3)
	})

	t.Run("foreign tag", func(t *testing.T) {
		var stmts []string
		tx := recipeTx(1, &stmts)
		_, err := CreateRecipe(ctx, database.TxDB(tx), &model.Recipe{UserID: 5, TagIDs: []int{1, 2}})
		require.ErrorIs(t, err, ErrInvalidTags)
		require.False(t, tx.Committed)
		require.True(t, tx.RolledBack)
		require.Empty(t, stmts)
	})

	t.Run("foreign ingredient", func(t *testing.T) {
		var stmts []string
		tx := recipeTx(0, &stmts)
		_, err := CreateRecipe(ctx, database.TxDB(tx), &model.Recipe{UserID: 5, IngredientIDs: []int{9}})
		require.ErrorIs(t, err, ErrInvalidIngredients)
		require.True(t, tx.RolledBack)
	})

	t.Run("begin error", func(t *testing.T) {
		db := &database.FakeDB{BeginFn: func(context.Context) (pgx.Tx, error) {
			return nil, errors.New("begin")
		}}
		_, err := CreateRecipe(ctx, db, &model.Recipe{UserID: 5})
		require.Error(t, err)
	})
}

func TestUpdateRecipe(t *testing.T) {
	ctx := context.Background()
	title := "New"

	t.Run("scalars only", func(t *testing.T) {
		var stmts []string
		tx := recipeTx(0, &stmts)
		r, err := UpdateRecipe(ctx, database.TxDB(tx), 5, 42, model.RecipePatch{Title: &title})
		require.NoError(t, err)
		require.Equal(t, "New", r.Title)
		require.Equal(t, []int{1, 2}, r.TagIDs)
		require.Equal(t, []int{7}, r.IngredientIDs)
		require.Empty(t, stmts)
		require.True(t, tx.Committed)
	})

	t.Run("replace tags", func(t *testing.T) {
		var stmts []string
		tx := recipeTx(2, &stmts)
		tags := []int{1, 2}
		_, err := UpdateRecipe(ctx, database.TxDB(tx), 5, 42, model.RecipePatch{TagIDs: &tags})
		require.NoError(t, err)
		require.Len(t, stmts, 2)
		require.Contains(t, stmts[0], "DELETE FROM recipe_tags")
	})

	t.Run("clear ingredients", func(t *testing.T) {
		var stmts []string
		tx := recipeTx(0, &stmts)
		empty := []int{}
		_, err := UpdateRecipe(ctx, database.TxDB(tx), 5, 42, model.RecipePatch{IngredientIDs: &empty})
		require.NoError(t, err)
		require.Len(t, stmts, 1)
		require.Contains(t, stmts[0], "DELETE FROM recipe_ingredients")
	})

	t.Run("foreign tag", func(t *testing.T) {
		var stmts []string
		tx := recipeTx(0, &stmts)
		tags := []int{3}
		_, err := UpdateRecipe(ctx, database.TxDB(tx), 5, 42, model.RecipePatch{TagIDs: &tags})
		require.ErrorIs(t, err, ErrInvalidTags)
		require.True(t, tx.RolledBack)
	})

	t.Run("not found", func(t *testing.T) {
		tx := &database.FakeTx{}
		tx.QueryRowFn = func(context.Context, string, ...any) pgx.Row {
			return &fakeRow{err: pgx.ErrNoRows}
		}
		_, err := UpdateRecipe(ctx, database.TxDB(tx), 5, 42, model.RecipePatch{Title: &title})
		require.ErrorIs(t, err, ErrNotFound)
		require.True(t, tx.RolledBack)
	})
}

func TestDeleteRecipe(t *testing.T) {
	ctx := context.Background()
	db := &database.FakeDB{
		QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
			require.Contains(t, sql, "RETURNING image")
			require.Equal(t, []any{2, 5}, args)
			return &fakeRow{vals: []any{"uploads/recipe/a.jpg"}}
		},
	}
	img, err := DeleteRecipe(ctx, db, 5, 2)
	require.NoError(t, err)
	require.Equal(t, "uploads/recipe/a.jpg", img)

	db.QueryRowFn = func(context.Context, string, ...any) pgx.Row {
		return &fakeRow{err: pgx.ErrNoRows}
	}
	_, err = DeleteRecipe(ctx, db, 5, 2)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSetRecipeImage(t *testing.T) {
	ctx := context.Background()
	db := &database.FakeDB{
		QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
			require.Equal(t, []any{2, 5, "uploads/recipe/new.png"}, args)
			return &fakeRow{vals: []any{"uploads/recipe/old.png"}}
		},
	}
	prev, err := SetRecipeImage(ctx, db, 5, 2, "uploads/recipe/new.png")
	require.NoError(t, err)
	require.Equal(t, "uploads/recipe/old.png", prev)

	db.QueryRowFn = func(context.Context, string, ...any) pgx.Row {
		return &fakeRow{err: pgx.ErrNoRows}
	}
	_, err = SetRecipeImage(ctx, db, 5, 2, "x")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSetRecipeImageBlurHash(t *testing.T) {
	ctx := context.Background()
	db := &database.FakeDB{
		ExecFn: func(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
			require.Equal(t, []any{2, "uploads/recipe/a.png", "LKO2"}, args)
			return pgconn.NewCommandTag("UPDATE 1"), nil
		},
	}
	require.NoError(t, SetRecipeImageBlurHash(ctx, db, 2, "uploads/recipe/a.png", "LKO2"))

	db.ExecFn = func(context.Context, string, ...any) (pgconn.CommandTag, error) {
		return pgconn.CommandTag{}, errors.New("exec")
	}
	require.EqualError(t, SetRecipeImageBlurHash(ctx, db, 2, "a", "b"), "SetRecipeImageBlurHash: exec")
}
