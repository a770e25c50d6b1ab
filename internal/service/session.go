package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"wellness-hub/internal/database"
	"wellness-hub/internal/model"
	"wellness-hub/internal/store"

	"github.com/jackc/pgx/v5"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

var (
	createSession         = store.CreateSession
	getSessionByID        = store.GetSessionByID
	listSessionsByOwner   = store.ListSessionsByOwner
	listPublishedSessions = store.ListPublishedSessions
	updateSession         = store.UpdateSession
	updateSessionStatus   = store.UpdateSessionStatus
	updateSessionFeatured = store.UpdateSessionFeatured
	toggleSessionLike     = store.ToggleSessionLike
	incrementSessionViews = store.IncrementSessionViews
	deleteSession         = store.DeleteSession

	sessionValidator = NewValidator()
)

// SessionInput 是建立與部分更新共用的欄位集合，nil 表示未提供
type SessionInput struct {
	Title       *string
	Description *string
	Tags        *string // 逗號分隔
	JSONFileURL *string
	Duration    *string
	Difficulty  *string
	Category    *string
}

func errSessionNotFound() error { return newError(KindNotFound, "Session not found") }

// applyInput 只套用有提供的欄位
func applyInput(s *model.Session, in SessionInput) {
	if in.Title != nil {
		s.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		s.Description = strings.TrimSpace(*in.Description)
	}
	if in.Tags != nil {
		s.Tags = NormalizeTags(*in.Tags)
	}
	if in.JSONFileURL != nil {
		if u := strings.TrimSpace(*in.JSONFileURL); u != "" {
			s.JSONFileURL = &u
		} else {
			s.JSONFileURL = nil
		}
	}
	if in.Duration != nil {
		if d := strings.TrimSpace(*in.Duration); d != "" {
			s.Duration = d
		}
	}
	if in.Difficulty != nil {
		if d := strings.ToLower(strings.TrimSpace(*in.Difficulty)); d != "" {
			s.Difficulty = d
		}
	}
	if in.Category != nil {
		if c := strings.ToLower(strings.TrimSpace(*in.Category)); c != "" {
			s.Category = c
		}
	}
}

func validateSession(s *model.Session) error {
	if err := sessionValidator.Struct(s); err != nil {
		return newError(KindValidation, "%s", ValidationMessage(err))
	}
	return nil
}

// CreateSession 以 draft 狀態建立 session，owner 取自呼叫者
func CreateSession(ctx context.Context, db database.DB, owner Identity, in SessionInput) (*model.Session, error) {
	s := &model.Session{
		UserID:     owner.UserID,
		Tags:       []string{},
		Status:     model.StatusDraft,
		Duration:   model.DefaultDuration,
		Difficulty: model.DefaultDifficulty,
		Category:   model.DefaultCategory,
		IsActive:   true,
	}
	applyInput(s, in)
	if err := validateSession(s); err != nil {
		return nil, err
	}
	return createSession(ctx, db, s)
}

// loadOwned 讀取 session 並確認 actor 是 owner 或 admin；
// 越權沿用 Unauthorized (401)
func loadOwned(ctx context.Context, db database.DB, actor Identity, id int, verb string) (*model.Session, error) {
	s, err := getSessionByID(ctx, db, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errSessionNotFound()
		}
		return nil, err
	}
	if !s.OwnedBy(actor.UserID) && !actor.IsAdmin() {
		return nil, newError(KindUnauthorized, "Not authorized to %s this session", verb)
	}
	return s, nil
}

func notFoundOr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errSessionNotFound()
	}
	return err
}

// UpdateSession 部分更新；owner、status、likes、views 不受 payload 影響
func UpdateSession(ctx context.Context, db database.DB, actor Identity, id int, in SessionInput) (*model.Session, error) {
	s, err := loadOwned(ctx, db, actor, id, "update")
	if err != nil {
		return nil, err
	}
	applyInput(s, in)
	if err := validateSession(s); err != nil {
		return nil, err
	}
	updated, err := updateSession(ctx, db, s)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return updated, nil
}

func DeleteSession(ctx context.Context, db database.DB, actor Identity, id int) error {
	if _, err := loadOwned(ctx, db, actor, id, "delete"); err != nil {
		return err
	}
	return notFoundOr(deleteSession(ctx, db, id))
}

// PublishSession 將狀態設為 published；已發佈時重新寫入同一狀態，不視為錯誤
func PublishSession(ctx context.Context, db database.DB, actor Identity, id int) (*model.Session, error) {
	if _, err := loadOwned(ctx, db, actor, id, "publish"); err != nil {
		return nil, err
	}
	s, err := updateSessionStatus(ctx, db, id, model.StatusPublished)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return s, nil
}

// ToggleLike 切換 actor 的按讚狀態，回傳更新後的 session 與目前是否為已讚
func ToggleLike(ctx context.Context, db database.DB, actor Identity, id int) (*model.Session, bool, error) {
	s, err := getSessionByID(ctx, db, id)
	if err != nil {
		return nil, false, notFoundOr(err)
	}
	if s.Status != model.StatusPublished {
		return nil, false, newError(KindInvalidState, "Cannot like unpublished session")
	}
	s, err = toggleSessionLike(ctx, db, id, actor.UserID)
	if err != nil {
		return nil, false, notFoundOr(err)
	}
	return s, s.LikedBy(actor.UserID), nil
}

// ViewSession 讀取單筆 session。draft 對 owner 以外的人一律回 NotFound；
// 已登入且非 owner 的讀取會讓 views +1
func ViewSession(ctx context.Context, db database.DB, viewer *Identity, id int) (*model.Session, error) {
	s, err := getSessionByID(ctx, db, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	isOwner := viewer != nil && s.OwnedBy(viewer.UserID)
	if s.Status == model.StatusDraft && !isOwner {
		return nil, errSessionNotFound()
	}
	if viewer != nil && !isOwner {
		views, err := incrementSessionViews(ctx, db, id)
		if err != nil {
			return nil, notFoundOr(err)
		}
		s.Views = views
	}
	return s, nil
}

// normalizeFilter 套用預設頁碼與筆數上限
func normalizeFilter(f model.SessionFilter) model.SessionFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
	// page*limit 不可溢位，否則 OFFSET 會變成負數
	if maxPage := math.MaxInt / f.Limit; f.Page > maxPage {
		f.Page = maxPage
	}
	f.Search = strings.TrimSpace(f.Search)
	f.Category = strings.ToLower(strings.TrimSpace(f.Category))
	f.Difficulty = strings.ToLower(strings.TrimSpace(f.Difficulty))
	return f
}

// ListPublic 回傳公開 session 的分頁結果
func ListPublic(ctx context.Context, db database.DB, f model.SessionFilter) ([]model.Session, model.Pagination, error) {
	f = normalizeFilter(f)
	sessions, total, err := listPublishedSessions(ctx, db, f)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return sessions, model.NewPagination(f.Page, f.Limit, total), nil
}

// ListOwned 回傳 owner 的 session，status 可為空、draft 或 published
func ListOwned(ctx context.Context, db database.DB, owner Identity, status string) ([]model.Session, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case "", model.StatusDraft, model.StatusPublished:
	default:
		return nil, newError(KindValidation, "status must be one of: draft, published")
	}
	return listSessionsByOwner(ctx, db, owner.UserID, status)
}

// SetFeatured 由 admin 路由呼叫，權限在 middleware 檢查
func SetFeatured(ctx context.Context, db database.DB, id int, featured bool) (*model.Session, error) {
	s, err := updateSessionFeatured(ctx, db, id, featured)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return s, nil
}
