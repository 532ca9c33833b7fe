package store

import (
	"context"
	"fmt"

	"recipe-api/internal/database"
	"recipe-api/internal/model"
)

const recipeSelect = `
	SELECT r.id, r.user_id, r.title, r.time_minutes, r.price, r.link, r.image, r.image_blurhash,
	       ARRAY(SELECT x.tag_id FROM recipe_tags x WHERE x.recipe_id = r.id ORDER BY x.tag_id),
	       ARRAY(SELECT y.ingredient_id FROM recipe_ingredients y WHERE y.recipe_id = r.id ORDER BY y.ingredient_id)
	FROM recipes r`

func scanRecipe(row interface{ Scan(...any) error }) (*model.Recipe, error) {
	r := &model.Recipe{}
	if err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.Title,
		&r.TimeMinutes,
		&r.Price,
		&r.Link,
		&r.Image,
		&r.ImageBlurHash,
		&r.TagIDs,
		&r.IngredientIDs,
	); err != nil {
		return nil, err
	}
	if r.TagIDs == nil {
		r.TagIDs = []int{}
	}
	if r.IngredientIDs == nil {
		r.IngredientIDs = []int{}
	}
	return r, nil
}

// ListRecipes 依 id 由新到舊列出 userID 的食譜
// 篩選欄位為 nil 時不套用；同欄位多個 id 為 OR，兩欄位同時存在時取交集
func ListRecipes(ctx context.Context, db database.DB, userID int, f model.RecipeFilter) ([]model.Recipe, error) {
	rows, err := db.Query(ctx, recipeSelect+`
		WHERE r.user_id = $1
		  AND ($2::int[] IS NULL OR EXISTS (
		        SELECT 1 FROM recipe_tags x WHERE x.recipe_id = r.id AND x.tag_id = ANY($2::int[])))
		  AND ($3::int[] IS NULL OR EXISTS (
		        SELECT 1 FROM recipe_ingredients y WHERE y.recipe_id = r.id AND y.ingredient_id = ANY($3::int[])))
		ORDER BY r.id DESC`,
		userID,
		f.TagIDs,
		f.IngredientIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("ListRecipes: %w", err)
	}
	defer rows.Close()

	out := []model.Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("ListRecipes: %w", err)
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListRecipes: %w", err)
	}
	return out, nil
}

// GetRecipe 取得單筆食譜與其完整的標籤、食材；不屬於 userID 時回傳 ErrNotFound
func GetRecipe(ctx context.Context, db database.DB, userID, recipeID int) (*model.Recipe, error) {
	r, err := scanRecipe(db.QueryRow(ctx, recipeSelect+`
		WHERE r.id = $1 AND r.user_id = $2`,
		recipeID,
		userID,
	))
	if err != nil {
		return nil, fmt.Errorf("GetRecipe: %w", translate(err))
	}

	tags, err := tagTable.forRecipe(ctx, db, r.ID)
	if err != nil {
		return nil, fmt.Errorf("GetRecipe: %w", err)
	}
	ingredients, err := ingredientTable.forRecipe(ctx, db, r.ID)
	if err != nil {
		return nil, fmt.Errorf("GetRecipe: %w", err)
	}
	r.Tags = toTags(userID, tags)
	r.Ingredients = toIngredients(userID, ingredients)
	return r, nil
}

// CreateRecipe 在單一交易內建立食譜與關聯；任何關聯 id 不屬於 r.UserID 即整筆失敗
func CreateRecipe(ctx context.Context, db database.DB, r *model.Recipe) (*model.Recipe, error) {
	r.TagIDs = uniqueIDs(r.TagIDs)
	r.IngredientIDs = uniqueIDs(r.IngredientIDs)

	err := database.WithTx(ctx, db, func(q database.Querier) error {
		if err := tagTable.checkOwned(ctx, q, r.UserID, r.TagIDs); err != nil {
			return err
		}
		if err := ingredientTable.checkOwned(ctx, q, r.UserID, r.IngredientIDs); err != nil {
			return err
		}

		row := q.QueryRow(ctx,
			`INSERT INTO recipes (user_id, title, time_minutes, price, link)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, image, image_blurhash`,
			r.UserID,
			r.Title,
			r.TimeMinutes,
			r.Price,
			r.Link,
		)
		if err := row.Scan(&r.ID, &r.Image, &r.ImageBlurHash); err != nil {
			return err
		}

		if err := tagTable.replaceLinks(ctx, q, r.ID, r.TagIDs); err != nil {
			return err
		}
		return ingredientTable.replaceLinks(ctx, q, r.ID, r.IngredientIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("CreateRecipe: %w", err)
	}
	return r, nil
}

// UpdateRecipe 套用 p 至 userID 擁有的食譜，整筆更新在同一交易中完成
func UpdateRecipe(ctx context.Context, db database.DB, userID, recipeID int, p model.RecipePatch) (*model.Recipe, error) {
	var tagIDs, ingredientIDs []int
	if p.TagIDs != nil {
		tagIDs = uniqueIDs(*p.TagIDs)
	}
	if p.IngredientIDs != nil {
		ingredientIDs = uniqueIDs(*p.IngredientIDs)
	}

	var r *model.Recipe
	err := database.WithTx(ctx, db, func(q database.Querier) error {
		if err := tagTable.checkOwned(ctx, q, userID, tagIDs); err != nil {
			return err
		}
		if err := ingredientTable.checkOwned(ctx, q, userID, ingredientIDs); err != nil {
			return err
		}

		var err error
		r, err = scanRecipe(q.QueryRow(ctx,
			`WITH u AS (
			     UPDATE recipes SET
			         title = COALESCE($3, title),
			         time_minutes = COALESCE($4, time_minutes),
			         price = COALESCE($5, price),
			         link = COALESCE($6, link)
			     WHERE id = $1 AND user_id = $2
			     RETURNING id, user_id, title, time_minutes, price, link, image, image_blurhash
			 )
			 SELECT u.id, u.user_id, u.title, u.time_minutes, u.price, u.link, u.image, u.image_blurhash,
			        '{}'::int[], '{}'::int[]
			 FROM u`,
			recipeID,
			userID,
			p.Title,
			p.TimeMinutes,
			p.Price,
			p.Link,
		))
		if err != nil {
			return translate(err)
		}

		if p.TagIDs != nil {
			if err := tagTable.replaceLinks(ctx, q, r.ID, tagIDs); err != nil {
				return err
			}
		}
		if p.IngredientIDs != nil {
			if err := ingredientTable.replaceLinks(ctx, q, r.ID, ingredientIDs); err != nil {
				return err
			}
		}

		return q.QueryRow(ctx,
			`SELECT ARRAY(SELECT tag_id FROM recipe_tags WHERE recipe_id = $1 ORDER BY tag_id),
			        ARRAY(SELECT ingredient_id FROM recipe_ingredients WHERE recipe_id = $1 ORDER BY ingredient_id)`,
			r.ID,
		).Scan(&r.TagIDs, &r.IngredientIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("UpdateRecipe: %w", err)
	}
	return r, nil
}

// DeleteRecipe 刪除食譜並回傳其圖片路徑，供呼叫端清除檔案
func DeleteRecipe(ctx context.Context, db database.DB, userID, recipeID int) (string, error) {
	var image string
	row := db.QueryRow(ctx,
		`DELETE FROM recipes WHERE id = $1 AND user_id = $2 RETURNING image`,
		recipeID,
		userID,
	)
	if err := row.Scan(&image); err != nil {
		return "", fmt.Errorf("DeleteRecipe: %w", translate(err))
	}
	return image, nil
}

// SetRecipeImage 設定食譜圖片並清除舊的 blurhash，回傳先前的圖片路徑
func SetRecipeImage(ctx context.Context, db database.DB, userID, recipeID int, image string) (string, error) {
	var prev string
	row := db.QueryRow(ctx,
		`WITH prev AS (
		     SELECT id, image FROM recipes WHERE id = $1 AND user_id = $2 FOR UPDATE
		 )
		 UPDATE recipes r SET image = $3, image_blurhash = ''
		 FROM prev
		 WHERE r.id = prev.id
		 RETURNING prev.image`,
		recipeID,
		userID,
		image,
	)
	if err := row.Scan(&prev); err != nil {
		return "", fmt.Errorf("SetRecipeImage: %w", translate(err))
	}
	return prev, nil
}

// SetRecipeImageBlurHash 僅在圖片仍為 image 時寫入 blurhash，避免覆蓋較新的上傳
func SetRecipeImageBlurHash(ctx context.Context, db database.DB, recipeID int, image, hash string) error {
	_, err := db.Exec(ctx,
		`UPDATE recipes SET image_blurhash = $3 WHERE id = $1 AND image = $2`,
		recipeID,
		image,
		hash,
	)
	if err != nil {
		return fmt.Errorf("SetRecipeImageBlurHash: %w", err)
	}
	return nil
}
