// File: internal/model/tag.go
package model

// Tag 是使用者自有的食譜標籤
type Tag struct {
	ID     int    `db:"id" json:"id"`
	UserID int    `db:"user_id" json:"-"`
	Name   string `db:"name" json:"name"`
}

// Ingredient 與 Tag 同形，代表使用者自有的食材
type Ingredient struct {
	ID     int    `db:"id" json:"id"`
	UserID int    `db:"user_id" json:"-"`
	Name   string `db:"name" json:"name"`
}
