package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"wellness-hub/internal/database"
	"wellness-hub/internal/model"
	"wellness-hub/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// memBackend 以記憶體模擬 store 層，讓 workflow 測試不需要資料庫
type memBackend struct {
	mu       sync.Mutex
	users    map[int]*model.User
	sessions map[int]*model.Session
	nextUser int
	nextSess int
	clock    time.Time
}

func newMemBackend() *memBackend {
	return &memBackend{
		users:    map[int]*model.User{},
		sessions: map[int]*model.Session{},
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memBackend) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memBackend) withAuthor(s *model.Session) *model.Session {
	cp := *s
	cp.Tags = append([]string{}, s.Tags...)
	cp.Likes = append([]int{}, s.Likes...)
	cp.LikeCount = len(cp.Likes)
	if u, ok := m.users[s.UserID]; ok {
		cp.Author = &model.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return &cp
}

// install 將 store 函式換成記憶體版本，測試結束後還原
func (m *memBackend) install(t *testing.T) {
	t.Cleanup(restoreGlobals)

	getUserByEmail = func(_ context.Context, _ database.DB, email string) (*model.User, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		for _, u := range m.users {
			if u.Email == email {
				cp := *u
				return &cp, nil
			}
		}
		return nil, pgx.ErrNoRows
	}
	getUserByID = func(_ context.Context, _ database.DB, id int) (*model.User, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		u, ok := m.users[id]
		if !ok {
			return nil, pgx.ErrNoRows
		}
		cp := *u
		return &cp, nil
	}
	createUser = func(_ context.Context, _ database.DB, u *model.User) (*model.User, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.nextUser++
		u.ID = m.nextUser
		u.CreatedAt = m.tick()
		cp := *u
		m.users[u.ID] = &cp
		return u, nil
	}
	updateUser = func(_ context.Context, _ database.DB, u *model.User) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		cur, ok := m.users[u.ID]
		if !ok {
			return pgx.ErrNoRows
		}
		cur.Name, cur.Email = u.Name, u.Email
		return nil
	}
	updateUserPassword = func(_ context.Context, _ database.DB, id int, hash string) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.users[id].PasswordHash = hash
		return nil
	}
	updateUserLastLogin = func(_ context.Context, _ database.DB, id int, at time.Time) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.users[id].LastLogin = &at
		return nil
	}

	createSession = func(_ context.Context, _ database.DB, s *model.Session) (*model.Session, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.nextSess++
		cp := *s
		cp.ID = m.nextSess
		cp.Likes = []int{}
		cp.CreatedAt = m.tick()
		cp.UpdatedAt = cp.CreatedAt
		m.sessions[cp.ID] = &cp
		return m.withAuthor(&cp), nil
	}
	getSessionByID = func(_ context.Context, _ database.DB, id int) (*model.Session, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		s, ok := m.sessions[id]
		if !ok {
			return nil, pgx.ErrNoRows
		}
		return m.withAuthor(s), nil
	}
	listSessionsByOwner = func(_ context.Context, _ database.DB, ownerID int, status string) ([]model.Session, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		out := []model.Session{}
		for _, s := range m.sessions {
			if s.UserID == ownerID && (status == "" || s.Status == status) {
				out = append(out, *m.withAuthor(s))
			}
		}
		sortNewestFirst(out)
		return out, nil
	}
	listPublishedSessions = func(_ context.Context, _ database.DB, f model.SessionFilter) ([]model.Session, int, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		all := []model.Session{}
		for _, s := range m.sessions {
			if s.Status != model.StatusPublished || !s.IsActive {
				continue
			}
			if f.Category != "" && s.Category != f.Category {
				continue
			}
			if f.Difficulty != "" && s.Difficulty != f.Difficulty {
				continue
			}
			if f.Featured && !s.IsFeatured {
				continue
			}
			if f.Search != "" && !matchesSearch(s, f.Search) {
				continue
			}
			all = append(all, *m.withAuthor(s))
		}
		sortNewestFirst(all)
		total := len(all)
		start := f.Offset()
		if start > total {
			start = total
		}
		end := start + f.Limit
		if end > total {
			end = total
		}
		return all[start:end], total, nil
	}
	updateSession = func(_ context.Context, _ database.DB, s *model.Session) (*model.Session, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		cur, ok := m.sessions[s.ID]
		if !ok {
			return nil, pgx.ErrNoRows
		}
		cur.Title, cur.Description, cur.Tags = s.Title, s.Description, s.Tags
		cur.JSONFileURL, cur.Duration = s.JSONFileURL, s.Duration
		cur.Difficulty, cur.Category = s.Difficulty, s.Category
		cur.UpdatedAt = m.tick()
		return m.withAuthor(cur), nil
	}
	updateSessionStatus = func(_ context.Context, _ database.DB, id int, status string) (*model.Session, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		cur, ok := m.sessions[id]
		if !ok {
			return nil, pgx.ErrNoRows
		}
		cur.Status = status
		return m.withAuthor(cur), nil
	}
	updateSessionFeatured = func(_ context.Context, _ database.DB, id int, featured bool) (*model.Session, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		cur, ok := m.sessions[id]
		if !ok {
			return nil, pgx.ErrNoRows
		}
		cur.IsFeatured = featured
		return m.withAuthor(cur), nil
	}
	toggleSessionLike = func(_ context.Context, _ database.DB, id, userID int) (*model.Session, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		cur, ok := m.sessions[id]
		if !ok {
			return nil, pgx.ErrNoRows
		}
		if cur.LikedBy(userID) {
			kept := []int{}
			for _, l := range cur.Likes {
				if l != userID {
					kept = append(kept, l)
				}
			}
			cur.Likes = kept
		} else {
			cur.Likes = append(cur.Likes, userID)
		}
		return m.withAuthor(cur), nil
	}
	incrementSessionViews = func(_ context.Context, _ database.DB, id int) (int, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		cur, ok := m.sessions[id]
		if !ok {
			return 0, pgx.ErrNoRows
		}
		cur.Views++
		return cur.Views, nil
	}
	deleteSession = func(_ context.Context, _ database.DB, id int) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.sessions[id]; !ok {
			return pgx.ErrNoRows
		}
		delete(m.sessions, id)
		return nil
	}
}

func matchesSearch(s *model.Session, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(s.Title), term) || strings.Contains(strings.ToLower(s.Description), term) {
		return true
	}
	for _, tag := range s.Tags {
		if strings.Contains(tag, term) {
			return true
		}
	}
	return false
}

func sortNewestFirst(list []model.Session) {
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
}

func restoreGlobals() {
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
	timeNow = time.Now
	newTokenID = uuid.NewString
	parseWithClaims = jwt.ParseWithClaims

	getUserByEmail = store.GetUserByEmail
	getUserByID = store.GetUserByID
	createUser = store.CreateUser
	updateUser = store.UpdateUser
	updateUserPassword = store.UpdateUserPassword
	updateUserLastLogin = store.UpdateUserLastLogin
	hashPassword = HashPassword
	issueAccessToken = IssueAccessToken

	createSession = store.CreateSession
	getSessionByID = store.GetSessionByID
	listSessionsByOwner = store.ListSessionsByOwner
	listPublishedSessions = store.ListPublishedSessions
	updateSession = store.UpdateSession
	updateSessionStatus = store.UpdateSessionStatus
	updateSessionFeatured = store.UpdateSessionFeatured
	toggleSessionLike = store.ToggleSessionLike
	incrementSessionViews = store.IncrementSessionViews
	deleteSession = store.DeleteSession
}

func strPtr(s string) *string { return &s }
