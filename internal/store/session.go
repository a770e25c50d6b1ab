package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"wellness-hub/internal/database"
	"wellness-hub/internal/model"

	"github.com/jackc/pgx/v5"
)

// sessionColumns 以 s (sessions) 與 u (users) 為別名，順序須與 scanSession 一致
const sessionColumns = `s.id, s.user_id, u.name, u.email, s.title, s.description, s.tags,
	s.json_file_url, s.status, s.duration, s.difficulty, s.category, s.likes,
	s.views, s.is_featured, s.is_active, s.created_at, s.updated_at`

// withAuthor 將回傳整列的 CTE 與作者資料 join，讓寫入與讀取共用同一組欄位
func withAuthor(cte string) string {
	return `WITH s AS (` + cte + `) SELECT ` + sessionColumns + ` FROM s JOIN users u ON u.id = s.user_id`
}

func scanSession(row pgx.Row, s *model.Session) error {
	author := &model.UserSummary{}
	if err := row.Scan(
		&s.ID,
		&s.UserID,
		&author.Name,
		&author.Email,
		&s.Title,
		&s.Description,
		&s.Tags,
		&s.JSONFileURL,
		&s.Status,
		&s.Duration,
		&s.Difficulty,
		&s.Category,
		&s.Likes,
		&s.Views,
		&s.IsFeatured,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return err
	}
	author.ID = s.UserID
	s.Author = author
	if s.Tags == nil {
		s.Tags = []string{}
	}
	if s.Likes == nil {
		s.Likes = []int{}
	}
	s.LikeCount = len(s.Likes)
	return nil
}

func collectSessions(rows pgx.Rows) ([]model.Session, error) {
	defer rows.Close()
	sessions := []model.Session{}
	for rows.Next() {
		var s model.Session
		if err := scanSession(rows, &s); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func queryOneSession(ctx context.Context, db database.DB, op, sql string, args ...any) (*model.Session, error) {
	s := &model.Session{}
	if err := scanSession(db.QueryRow(ctx, sql, args...), s); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func CreateSession(ctx context.Context, db database.DB, s *model.Session) (*model.Session, error) {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	return queryOneSession(ctx, db, "CreateSession", withAuthor(
		`INSERT INTO sessions
		     (user_id, title, description, tags, json_file_url, status, duration, difficulty, category)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING *`),
		s.UserID,
		s.Title,
		s.Description,
		tags,
		s.JSONFileURL,
		s.Status,
		s.Duration,
		s.Difficulty,
		s.Category,
	)
}

func GetSessionByID(ctx context.Context, db database.DB, id int) (*model.Session, error) {
	return queryOneSession(ctx, db, "GetSessionByID",
		`SELECT `+sessionColumns+`
		 FROM sessions s JOIN users u ON u.id = s.user_id
		 WHERE s.id = $1`,
		id,
	)
}

// ListSessionsByOwner 回傳 owner 的所有 session，status 為空時不過濾
func ListSessionsByOwner(ctx context.Context, db database.DB, ownerID int, status string) ([]model.Session, error) {
	sql := `SELECT ` + sessionColumns + `
		 FROM sessions s JOIN users u ON u.id = s.user_id
		 WHERE s.user_id = $1`
	args := []any{ownerID}
	if status != "" {
		sql += ` AND s.status = $2`
		args = append(args, status)
	}
	sql += ` ORDER BY s.created_at DESC, s.id DESC`

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("ListSessionsByOwner: %w", err)
	}
	sessions, err := collectSessions(rows)
	if err != nil {
		return nil, fmt.Errorf("ListSessionsByOwner: %w", err)
	}
	return sessions, nil
}

// escapeLike 讓使用者輸入的 % 與 _ 按字面比對
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// publishedWhere 組合公開列表的 WHERE 條件，回傳條件字串與參數
func publishedWhere(f model.SessionFilter) (string, []any) {
	conds := []string{`s.status = 'published'`, `s.is_active = TRUE`}
	var args []any
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if term := strings.TrimSpace(f.Search); term != "" {
		p := next("%" + escapeLike(term) + "%")
		conds = append(conds, `(s.title ILIKE `+p+` OR s.description ILIKE `+p+
			` OR EXISTS (SELECT 1 FROM unnest(s.tags) AS t(tag) WHERE t.tag ILIKE `+p+`))`)
	}
	if f.Category != "" {
		conds = append(conds, `s.category = `+next(f.Category))
	}
	if f.Difficulty != "" {
		conds = append(conds, `s.difficulty = `+next(f.Difficulty))
	}
	if f.Featured {
		conds = append(conds, `s.is_featured = TRUE`)
	}
	return strings.Join(conds, " AND "), args
}

// ListPublishedSessions 回傳符合條件的分頁資料與總筆數
func ListPublishedSessions(ctx context.Context, db database.DB, f model.SessionFilter) ([]model.Session, int, error) {
	where, args := publishedWhere(f)

	var total int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM sessions s WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ListPublishedSessions: %w", err)
	}

	n := len(args)
	sql := `SELECT ` + sessionColumns + `
		 FROM sessions s JOIN users u ON u.id = s.user_id
		 WHERE ` + where + `
		 ORDER BY s.created_at DESC, s.id DESC
		 LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	rows, err := db.Query(ctx, sql, append(args, f.Limit, f.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("ListPublishedSessions: %w", err)
	}
	sessions, err := collectSessions(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("ListPublishedSessions: %w", err)
	}
	return sessions, total, nil
}

// UpdateSession 覆寫可編輯欄位 (owner、status、likes、views 不在此列)
func UpdateSession(ctx context.Context, db database.DB, s *model.Session) (*model.Session, error) {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	return queryOneSession(ctx, db, "UpdateSession", withAuthor(
		`UPDATE sessions SET
		     title = $1,
		     description = $2,
		     tags = $3,
		     json_file_url = $4,
		     duration = $5,
		     difficulty = $6,
		     category = $7,
		     updated_at = now()
		 WHERE id = $8
		 RETURNING *`),
		s.Title,
		s.Description,
		tags,
		s.JSONFileURL,
		s.Duration,
		s.Difficulty,
		s.Category,
		s.ID,
	)
}

func UpdateSessionStatus(ctx context.Context, db database.DB, id int, status string) (*model.Session, error) {
	return queryOneSession(ctx, db, "UpdateSessionStatus", withAuthor(
		`UPDATE sessions SET status = $1, updated_at = now()
		 WHERE id = $2
		 RETURNING *`),
		status,
		id,
	)
}

func UpdateSessionFeatured(ctx context.Context, db database.DB, id int, featured bool) (*model.Session, error) {
	return queryOneSession(ctx, db, "UpdateSessionFeatured", withAuthor(
		`UPDATE sessions SET is_featured = $1, updated_at = now()
		 WHERE id = $2
		 RETURNING *`),
		featured,
		id,
	)
}

// ToggleSessionLike 在單一 UPDATE 中切換 userID 是否在 likes 內，likes 始終保持集合語意
func ToggleSessionLike(ctx context.Context, db database.DB, id, userID int) (*model.Session, error) {
	return queryOneSession(ctx, db, "ToggleSessionLike", withAuthor(
		`UPDATE sessions SET likes = CASE
		     WHEN $1::bigint = ANY(likes) THEN array_remove(likes, $1::bigint)
		     ELSE array_append(likes, $1::bigint)
		 END
		 WHERE id = $2
		 RETURNING *`),
		userID,
		id,
	)
}

func IncrementSessionViews(ctx context.Context, db database.DB, id int) (int, error) {
	var views int
	err := db.QueryRow(ctx,
		`UPDATE sessions SET views = views + 1 WHERE id = $1 RETURNING views`,
		id,
	).Scan(&views)
	if err != nil {
		return 0, fmt.Errorf("IncrementSessionViews: %w", err)
	}
	return views, nil
}

func DeleteSession(ctx context.Context, db database.DB, id int) error {
	tag, err := db.Exec(ctx,
		`DELETE FROM sessions WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("DeleteSession: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteSession: %w", pgx.ErrNoRows)
	}
	return nil
}
