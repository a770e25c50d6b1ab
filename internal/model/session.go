package model

import "time"

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

const (
	DefaultDuration   = "30 min"
	DefaultDifficulty = "beginner"
	DefaultCategory   = "wellness"
)

// Difficulties 與 Categories 是資料表 CHECK 約束的同一份列舉
var (
	Difficulties = []string{"beginner", "intermediate", "advanced"}
	Categories   = []string{"yoga", "meditation", "fitness", "wellness", "breathing", "stretching", "other"}
)

// Session 是一筆健康課程，owner (UserID) 建立後不可變更。
type Session struct {
	ID          int          `db:"id" json:"id"`
	UserID      int          `db:"user_id" json:"user_id" validate:"required"`
	Author      *UserSummary `db:"-" json:"user,omitempty"`
	Title       string       `db:"title" json:"title" validate:"required,max=100"`
	Description string       `db:"description" json:"description" validate:"required,max=1000"`
	Tags        []string     `db:"tags" json:"tags"`
	JSONFileURL *string      `db:"json_file_url" json:"json_file_url,omitempty" validate:"omitempty,http_url"`
	Status      string       `db:"status" json:"status" validate:"oneof=draft published"`
	Duration    string       `db:"duration" json:"duration"`
	Difficulty  string       `db:"difficulty" json:"difficulty" validate:"oneof=beginner intermediate advanced"`
	Category    string       `db:"category" json:"category" validate:"oneof=yoga meditation fitness wellness breathing stretching other"`
	Likes       []int        `db:"likes" json:"likes"`
	LikeCount   int          `db:"-" json:"like_count"`
	Views       int          `db:"views" json:"views"`
	IsFeatured  bool         `db:"is_featured" json:"is_featured"`
	IsActive    bool         `db:"is_active" json:"is_active"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}

func (s *Session) OwnedBy(userID int) bool { return s.UserID == userID }

func (s *Session) LikedBy(userID int) bool {
	for _, id := range s.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// SessionFilter 描述公開列表的查詢條件，各條件以 AND 組合
type SessionFilter struct {
	Search     string
	Category   string
	Difficulty string
	Featured   bool
	Page       int
	Limit      int
}

// Offset = (page-1)*limit
func (f SessionFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
