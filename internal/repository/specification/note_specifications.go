package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnedBy filters notes owned by a user.
type OwnedBy struct {
	UserID uuid.UUID
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notes.user_id = ?", s.UserID)
}

// AccessibleBy filters notes the user owns or that were shared with them.
// The vector store has no access-control awareness, so every search path runs
// through this filter on the relational side.
type AccessibleBy struct {
	UserID uuid.UUID
}

func (s AccessibleBy) Apply(db *gorm.DB) *gorm.DB {
	return db.
		Joins("LEFT JOIN note_shares ON note_shares.note_id = notes.id").
		Where("notes.user_id = ? OR note_shares.user_id = ?", s.UserID, s.UserID).
		Distinct("notes.*")
}

// KeywordQuery matches the keyword against title, content, or any tag.
// Using ILIKE for Postgres (case insensitive); tags are a jsonb array so the
// serialized column is matched directly.
type KeywordQuery struct {
	Keyword string
}

func (s KeywordQuery) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Keyword + "%"
	return db.Where("notes.title ILIKE ? OR notes.content ILIKE ? OR notes.tags::text ILIKE ?",
		pattern, pattern, pattern)
}
