package api

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseIDList 解析 "1,2,3" 形式的查詢參數；空字串回傳 nil（不篩選）
func ParseIDList(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParseFlag 將 "1" / "true" 視為開啟，其餘為關閉
func ParseFlag(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}
