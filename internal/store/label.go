package store

import (
	"context"
	"fmt"
	"sort"

	"recipe-api/internal/database"
	"recipe-api/internal/model"
)

// labelTable 描述 tags / ingredients 這類「使用者自有名稱」資料表與其關聯表
type labelTable struct {
	table   string
	link    string
	linkCol string
	invalid error
}

var (
	tagTable        = labelTable{table: "tags", link: "recipe_tags", linkCol: "tag_id", invalid: ErrInvalidTags}
	ingredientTable = labelTable{table: "ingredients", link: "recipe_ingredients", linkCol: "ingredient_id", invalid: ErrInvalidIngredients}
)

type label struct {
	ID   int
	Name string
}

func (t labelTable) list(ctx context.Context, db database.DB, userID int, assignedOnly bool) ([]label, error) {
	rows, err := db.Query(ctx, fmt.Sprintf(
		`SELECT l.id, l.name
		 FROM %s l
		 WHERE l.user_id = $1
		   AND (NOT $2 OR EXISTS (SELECT 1 FROM %s x WHERE x.%s = l.id))
		 ORDER BY l.name COLLATE "C" DESC, l.id DESC`,
		t.table, t.link, t.linkCol),
		userID,
		assignedOnly,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []label{}
	for rows.Next() {
		var l label
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (t labelTable) create(ctx context.Context, db database.DB, userID int, name string) (int, error) {
	var id int
	row := db.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO %s (user_id, name) VALUES ($1, $2) RETURNING id`, t.table),
		userID,
		name,
	)
	if err := row.Scan(&id); err != nil {
		return 0, translate(err)
	}
	return id, nil
}

// forRecipe 載入一筆食譜關聯的完整名稱，依 id 排序
func (t labelTable) forRecipe(ctx context.Context, q database.Querier, recipeID int) ([]label, error) {
	rows, err := q.Query(ctx, fmt.Sprintf(
		`SELECT l.id, l.name
		 FROM %s l
		 JOIN %s x ON x.%s = l.id
		 WHERE x.recipe_id = $1
		 ORDER BY l.id`,
		t.table, t.link, t.linkCol),
		recipeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []label{}
	for rows.Next() {
		var l label
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// checkOwned 確認 ids 全部存在且屬於 userID；ids 需已去重
func (t labelTable) checkOwned(ctx context.Context, q database.Querier, userID int, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	var n int
	row := q.QueryRow(ctx,
		fmt.Sprintf(`SELECT count(*) FROM %s WHERE user_id = $1 AND id = ANY($2::int[])`, t.table),
		userID,
		ids,
	)
	if err := row.Scan(&n); err != nil {
		return err
	}
	if n != len(ids) {
		return t.invalid
	}
	return nil
}

// replaceLinks 以 ids 整組取代食譜的關聯
func (t labelTable) replaceLinks(ctx context.Context, q database.Querier, recipeID int, ids []int) error {
	if _, err := q.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE recipe_id = $1`, t.link),
		recipeID,
	); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	_, err := q.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (recipe_id, %s) SELECT $1, unnest($2::int[])`, t.link, t.linkCol),
		recipeID,
		ids,
	)
	return err
}

// uniqueIDs 回傳排序後去重的 id 集合，nil 轉為空集合
func uniqueIDs(ids []int) []int {
	out := make([]int, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

func ListTags(ctx context.Context, db database.DB, userID int, assignedOnly bool) ([]model.Tag, error) {
	ls, err := tagTable.list(ctx, db, userID, assignedOnly)
	if err != nil {
		return nil, fmt.Errorf("ListTags: %w", err)
	}
	return toTags(userID, ls), nil
}

func CreateTag(ctx context.Context, db database.DB, t *model.Tag) (*model.Tag, error) {
	id, err := tagTable.create(ctx, db, t.UserID, t.Name)
	if err != nil {
		return nil, fmt.Errorf("CreateTag: %w", err)
	}
	t.ID = id
	return t, nil
}

func ListIngredients(ctx context.Context, db database.DB, userID int, assignedOnly bool) ([]model.Ingredient, error) {
	ls, err := ingredientTable.list(ctx, db, userID, assignedOnly)
	if err != nil {
		return nil, fmt.Errorf("ListIngredients: %w", err)
	}
	return toIngredients(userID, ls), nil
}

func CreateIngredient(ctx context.Context, db database.DB, in *model.Ingredient) (*model.Ingredient, error) {
	id, err := ingredientTable.create(ctx, db, in.UserID, in.Name)
	if err != nil {
		return nil, fmt.Errorf("CreateIngredient: %w", err)
	}
	in.ID = id
	return in, nil
}

func toTags(userID int, ls []label) []model.Tag {
	out := make([]model.Tag, 0, len(ls))
	for _, l := range ls {
		out = append(out, model.Tag{ID: l.ID, UserID: userID, Name: l.Name})
	}
	return out
}

func toIngredients(userID int, ls []label) []model.Ingredient {
	out := make([]model.Ingredient, 0, len(ls))
	for _, l := range ls {
		out = append(out, model.Ingredient{ID: l.ID, UserID: userID, Name: l.Name})
	}
	return out
}
