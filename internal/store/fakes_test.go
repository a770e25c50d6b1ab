package store

import (
	"time"

	"wellness-hub/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

/* ---------- 假實作 ---------- */

// fakeUserRow 支援兩種 Scan 呼叫場景：
// 1) len(dest)==8 → GetUserByID / GetUserByEmail
// 2) len(dest)==2 → CreateUser (id, created_at)
type fakeUserRow struct {
	scanErr error
	user    *model.User
}

func (r *fakeUserRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	u := r.user
	switch len(dest) {
	case 8:
		*dest[0].(*int) = u.ID
		*dest[1].(*string) = u.Name
		*dest[2].(*string) = u.Email
		*dest[3].(*string) = u.PasswordHash
		*dest[4].(*string) = u.Role
		*dest[5].(*bool) = u.IsActive
		*dest[6].(**time.Time) = u.LastLogin
		*dest[7].(*time.Time) = u.CreatedAt
	case 2:
		*dest[0].(*int) = u.ID
		*dest[1].(*time.Time) = u.CreatedAt
	default:
		panic("fakeUserRow.Scan: unexpected dest count")
	}
	return nil
}

// fillSession 依 sessionColumns 的順序寫入 dest
func fillSession(dest []any, s model.Session) {
	if len(dest) != 18 {
		panic("fillSession: unexpected dest count")
	}
	*dest[0].(*int) = s.ID
	*dest[1].(*int) = s.UserID
	*dest[2].(*string) = "Alice"
	*dest[3].(*string) = "alice@example.com"
	*dest[4].(*string) = s.Title
	*dest[5].(*string) = s.Description
	*dest[6].(*[]string) = s.Tags
	*dest[7].(**string) = s.JSONFileURL
	*dest[8].(*string) = s.Status
	*dest[9].(*string) = s.Duration
	*dest[10].(*string) = s.Difficulty
	*dest[11].(*string) = s.Category
	*dest[12].(*[]int) = s.Likes
	*dest[13].(*int) = s.Views
	*dest[14].(*bool) = s.IsFeatured
	*dest[15].(*bool) = s.IsActive
	*dest[16].(*time.Time) = s.CreatedAt
	*dest[17].(*time.Time) = s.UpdatedAt
}

type fakeSessionRow struct {
	scanErr error
	session model.Session
}

func (r *fakeSessionRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	fillSession(dest, r.session)
	return nil
}

// fakeIntRow 用於 COUNT(*) 與 RETURNING views
type fakeIntRow struct {
	n   int
	err error
}

func (r fakeIntRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*int) = r.n
	return nil
}

// fakeSessionRows 實作 pgx.Rows，用於模擬多筆掃描行為。
type fakeSessionRows struct {
	data    []model.Session
	idx     int
	scanErr error
	err     error
	closed  bool
}

func (r *fakeSessionRows) Close()                                       { r.closed = true }
func (r *fakeSessionRows) Err() error                                   { return r.err }
func (r *fakeSessionRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeSessionRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeSessionRows) Next() bool {
	ok := r.idx < len(r.data)
	if ok {
		r.idx++
	}
	return ok
}
func (r *fakeSessionRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	fillSession(dest, r.data[r.idx-1])
	return nil
}
func (r *fakeSessionRows) Values() ([]any, error) { return nil, nil }
func (r *fakeSessionRows) RawValues() [][]byte    { return nil }
func (r *fakeSessionRows) Conn() *pgx.Conn        { return nil }
