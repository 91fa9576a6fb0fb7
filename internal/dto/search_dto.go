package dto

import (
	"time"

	"github.com/google/uuid"
)

type SearchNoteResponse struct {
	Id         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Tags       []string   `json:"tags"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
	SearchType string     `json:"search_type"`           // "hybrid" | "keyword"
	Score      *float64   `json:"score,omitempty"`       // fused relevance, ordering only
}
