package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB 是 store 層用到的 *pgxpool.Pool 子集
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(context.Context) error
	Close()
}

// UnexpectedCallError 表示測試沒有設定對應的 Fn，卻執行了該 SQL
type UnexpectedCallError struct {
	Method string
	SQL    string
}

func (e *UnexpectedCallError) Error() string {
	return fmt.Sprintf("FakeDB: unexpected %s %q", e.Method, e.SQL)
}

// errRow 讓 QueryRow 在 Scan 時才回報錯誤，與 pgx 行為一致
type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

// FakeDB 由各測試提供行為；未設定的方法回傳 *UnexpectedCallError
type FakeDB struct {
	ExecFn     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryFn    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
	PingFn     func(ctx context.Context) error
	CloseFn    func()
}

func (f *FakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if f.ExecFn == nil {
		return pgconn.CommandTag{}, &UnexpectedCallError{Method: "Exec", SQL: sql}
	}
	return f.ExecFn(ctx, sql, args...)
}

func (f *FakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if f.QueryFn == nil {
		return nil, &UnexpectedCallError{Method: "Query", SQL: sql}
	}
	return f.QueryFn(ctx, sql, args...)
}

func (f *FakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if f.QueryRowFn == nil {
		return errRow{&UnexpectedCallError{Method: "QueryRow", SQL: sql}}
	}
	return f.QueryRowFn(ctx, sql, args...)
}

func (f *FakeDB) Ping(ctx context.Context) error {
	if f.PingFn == nil {
		return &UnexpectedCallError{Method: "Ping"}
	}
	return f.PingFn(ctx)
}

func (f *FakeDB) Close() {
	if f.CloseFn != nil {
		f.CloseFn()
	}
}
