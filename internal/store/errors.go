package store

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound 資料不存在或不屬於呼叫者
	ErrNotFound = errors.New("not found")
	// ErrDuplicate 違反唯一性限制
	ErrDuplicate = errors.New("already exists")
	// ErrInvalidTags 標籤 id 不存在或不屬於呼叫者
	ErrInvalidTags = errors.New("invalid tag ids")
	// ErrInvalidIngredients 食材 id 不存在或不屬於呼叫者
	ErrInvalidIngredients = errors.New("invalid ingredient ids")
)

const pgUniqueViolation = "23505"

// translate 將 pgx 錯誤轉成 store 的哨兵錯誤
func translate(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicate
	}
	return err
}
