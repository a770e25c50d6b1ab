// Package editor 實作 session 編輯畫面的自動儲存狀態機：
// 編輯後經過固定延遲才存檔，期間再次編輯會重新計時
package editor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"wellness-hub/internal/api"
	"wellness-hub/internal/model"

	"github.com/labstack/gommon/log"
)

type State int

const (
	Idle State = iota
	Saving
	Saved
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Saving:
		return "saving"
	case Saved:
		return "saved"
	case Error:
		return "error"
	}
	return "unknown"
}

// ErrIncomplete 表示標題或描述尚未填寫
var ErrIncomplete = errors.New("title and description are required")

// ErrClosed 表示編輯器已關閉
var ErrClosed = errors.New("editor closed")

// Saver 是編輯器需要的 API 子集，*client.Client 直接滿足
type Saver interface {
	CreateSession(ctx context.Context, fields api.SessionRequest) (*model.Session, error)
	UpdateSession(ctx context.Context, id int, fields api.SessionRequest) (*model.Session, error)
	PublishSession(ctx context.Context, id int) (*model.Session, error)
}

// Logger 接收自動儲存失敗的訊息
type Logger interface {
	Errorf(format string, args ...interface{})
}

// Draft 是編輯中的表單內容，tags 為逗號分隔字串
type Draft struct {
	Title       string
	Description string
	Tags        string
	JSONFileURL string
	Duration    string
	Difficulty  string
	Category    string
}

func (d Draft) complete() bool {
	return strings.TrimSpace(d.Title) != "" && strings.TrimSpace(d.Description) != ""
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (d Draft) request() api.SessionRequest {
	title, desc, tags := d.Title, d.Description, d.Tags
	return api.SessionRequest{
		Title:       &title,
		Description: &desc,
		Tags:        &tags,
		JSONFileURL: optional(d.JSONFileURL),
		Duration:    optional(d.Duration),
		Difficulty:  optional(d.Difficulty),
		Category:    optional(d.Category),
	}
}

type Option func(*Editor)

// WithLogger 替換預設的 gommon logger
func WithLogger(l Logger) Option {
	return func(e *Editor) { e.logger = l }
}

// WithSessionID 編輯既有的 session，存檔時改用 update
func WithSessionID(id int) Option {
	return func(e *Editor) { e.id = id }
}

// OnStateChange 在每次狀態變更後呼叫 (不持有鎖)
func OnStateChange(fn func(State)) Option {
	return func(e *Editor) { e.onChange = fn }
}

type Editor struct {
	saver  Saver
	delay  time.Duration
	logger Logger

	// saveMu 讓同一時間只有一個存檔請求，避免重複 create
	saveMu sync.Mutex

	mu       sync.Mutex
	draft    Draft
	id       int
	state    State
	err      error
	timer    *time.Timer
	closed   bool
	onChange func(State)
}

func New(saver Saver, delay time.Duration, opts ...Option) *Editor {
	e := &Editor{saver: saver, delay: delay, logger: log.New("editor")}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// SessionID 回傳已建立的 session ID，尚未存檔時為 0
func (e *Editor) SessionID() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.id
}

// Err 回傳最近一次失敗的原因
func (e *Editor) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

func (e *Editor) Draft() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// Edit 更新表單內容並重新開始倒數
func (e *Editor) Edit(d Draft) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.draft = d
	e.stopTimerLocked()
	e.timer = time.AfterFunc(e.delay, e.autosave)
}

func (e *Editor) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *Editor) setState(s State, err error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.state, e.err = s, err
	fn := e.onChange
	e.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

func (e *Editor) autosave() {
	e.mu.Lock()
	e.timer = nil
	closed, complete := e.closed, e.draft.complete()
	e.mu.Unlock()
	if closed || !complete {
		return
	}
	if _, err := e.persist(context.Background()); err != nil && !errors.Is(err, ErrClosed) {
		e.logger.Errorf("autosave session: %v", err)
	}
}

// persist 第一次建立 draft，之後更新同一筆
func (e *Editor) persist(ctx context.Context) (*model.Session, error) {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrClosed
	}
	draft, id := e.draft, e.id
	e.mu.Unlock()
	if !draft.complete() {
		return nil, ErrIncomplete
	}

	e.setState(Saving, nil)
	var (
		s   *model.Session
		err error
	)
	if id == 0 {
		s, err = e.saver.CreateSession(ctx, draft.request())
	} else {
		s, err = e.saver.UpdateSession(ctx, id, draft.request())
	}

	e.mu.Lock()
	closed := e.closed
	if err == nil && !closed {
		e.id = s.ID
	}
	e.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}
	if err != nil {
		e.setState(Error, err)
		return nil, err
	}
	e.setState(Saved, nil)
	return s, nil
}

// SaveDraft 取消倒數並立即存檔
func (e *Editor) SaveDraft(ctx context.Context) (*model.Session, error) {
	e.mu.Lock()
	e.stopTimerLocked()
	e.mu.Unlock()
	return e.persist(ctx)
}

// Publish 立即存檔後發佈
func (e *Editor) Publish(ctx context.Context) (*model.Session, error) {
	s, err := e.SaveDraft(ctx)
	if err != nil {
		return nil, err
	}
	published, err := e.saver.PublishSession(ctx, s.ID)
	if err != nil {
		e.setState(Error, err)
		return nil, err
	}
	return published, nil
}

// Close 取消倒數；之後回來的存檔結果一律丟棄
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTimerLocked()
	e.closed = true
}
