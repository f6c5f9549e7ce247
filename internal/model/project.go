package model

import "time"

// Project groups tasks under a creator. Members is duplicate-free; the
// creator is implicitly a member and does not have to appear in it.
type Project struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedBy   int64     `json:"created_by"`
	Members     []int64   `json:"members"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProjectPatch is a partial update: nil or empty-string fields leave the
// stored value unchanged, so this path cannot clear a field.
type ProjectPatch struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Members     *[]int64 `json:"members"`
}
