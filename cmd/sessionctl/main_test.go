package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"wellness-hub/internal/api"
	"wellness-hub/internal/config"
	"wellness-hub/internal/model"

	"github.com/stretchr/testify/require"
)

type request struct {
	Method string
	URL    string
	Auth   string
	Body   map[string]any
}

type fakeServer struct {
	mu       sync.Mutex
	mux      *http.ServeMux
	requests []request
}

func (f *fakeServer) reply(method, path string, status int, body any) {
	f.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	})
}

func (f *fakeServer) calls() []request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]request(nil), f.requests...)
}

// stubServer 啟動假的 API 並讓 loadClientConfig 指向它
func stubServer(t *testing.T, token string) *fakeServer {
	f := &fakeServer{mux: http.NewServeMux()}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := request{Method: r.Method, URL: r.URL.String(), Auth: r.Header.Get("Authorization")}
		_ = json.NewDecoder(r.Body).Decode(&req.Body)
		f.mu.Lock()
		f.requests = append(f.requests, req)
		f.mu.Unlock()
		f.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	orig := loadClientConfig
	loadClientConfig = func(string) (*config.ClientConfig, error) {
		return &config.ClientConfig{APIURL: srv.URL, APIToken: token, AutosaveDelay: time.Hour}, nil
	}
	t.Cleanup(func() { loadClientConfig = orig })
	return f
}

func draft(id int, status string) *model.Session {
	return &model.Session{ID: id, UserID: 3, Title: "Morning", Description: "Stretch", Status: status, Tags: []string{}}
}

func TestRunUsageErrors(t *testing.T) {
	f := stubServer(t, "")
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, run(ctx, nil, strings.NewReader(""), &out))
	require.Contains(t, out.String(), "Usage:")
	require.Contains(t, out.String(), "publish")

	err := run(ctx, []string{"dance"}, strings.NewReader(""), &bytes.Buffer{})
	require.ErrorContains(t, err, `unknown command "dance"`)

	err = run(ctx, []string{"show"}, strings.NewReader(""), &bytes.Buffer{})
	require.EqualError(t, err, "accepts 1 arg(s), received 0")

	err = run(ctx, []string{"delete", "abc"}, strings.NewReader(""), &bytes.Buffer{})
	require.EqualError(t, err, `invalid session id "abc"`)

	err = run(ctx, []string{"create", "-title", "x"}, strings.NewReader(""), &bytes.Buffer{})
	require.Error(t, err)
	require.Empty(t, f.calls())
}

func TestRunConfigError(t *testing.T) {
	t.Setenv("CONFIG_FILE", "from-env.yaml")
	orig := loadClientConfig
	var paths []string
	loadClientConfig = func(path string) (*config.ClientConfig, error) {
		paths = append(paths, path)
		return nil, errors.New("bad config")
	}
	t.Cleanup(func() { loadClientConfig = orig })

	err := run(context.Background(), []string{"me"}, strings.NewReader(""), &bytes.Buffer{})
	require.EqualError(t, err, "bad config")

	err = run(context.Background(), []string{"--config", "cli.yaml", "me"}, strings.NewReader(""), &bytes.Buffer{})
	require.EqualError(t, err, "bad config")
	require.Equal(t, []string{"from-env.yaml", "cli.yaml"}, paths)
}

func TestLoginPrintsToken(t *testing.T) {
	f := stubServer(t, "")
	f.reply(http.MethodPost, "/api/auth/login", http.StatusOK, api.OKMessage("Login successful", api.AuthData{
		Token: "tok-9",
		User:  &model.User{ID: 3, Name: "Alice", Email: "alice@example.com"},
	}))

	var out bytes.Buffer
	err := run(context.Background(), []string{"login", "--email", "alice@example.com", "--password", "secret1"}, strings.NewReader(""), &out)
	require.NoError(t, err)

	var got api.AuthData
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Equal(t, "tok-9", got.Token)
	require.Equal(t, "Alice", got.User.Name)

	calls := f.calls()
	require.Len(t, calls, 1)
	require.Equal(t, map[string]any{"email": "alice@example.com", "password": "secret1"}, calls[0].Body)
}

func TestLoginFailure(t *testing.T) {
	f := stubServer(t, "")
	f.reply(http.MethodPost, "/api/auth/login", http.StatusUnauthorized, api.Fail("Invalid credentials"))

	err := run(context.Background(), []string{"login", "--email", "a@example.com", "--password", "nope"}, strings.NewReader(""), &bytes.Buffer{})
	require.EqualError(t, err, "401: Invalid credentials")
}

func TestListPassesFilters(t *testing.T) {
	f := stubServer(t, "")
	p := model.NewPagination(2, 5, 6)
	f.reply(http.MethodGet, "/api/sessions", http.StatusOK, api.List([]model.Session{*draft(1, model.StatusPublished)}, &p))

	var out bytes.Buffer
	err := run(context.Background(), []string{"list", "--page", "2", "--limit", "5", "--category", "yoga", "--featured"}, strings.NewReader(""), &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), `"Morning"`)

	calls := f.calls()
	require.Len(t, calls, 1)
	require.Contains(t, calls[0].URL, "page=2")
	require.Contains(t, calls[0].URL, "limit=5")
	require.Contains(t, calls[0].URL, "category=yoga")
	require.Contains(t, calls[0].URL, "featured=true")
	require.Empty(t, calls[0].Auth)
}

func TestCreateAndPublishUsesToken(t *testing.T) {
	f := stubServer(t, "tok-1")
	f.reply(http.MethodPost, "/api/sessions", http.StatusCreated, api.OKMessage("Session created successfully", draft(7, model.StatusDraft)))
	f.reply(http.MethodPut, "/api/sessions/7/publish", http.StatusOK, api.OKMessage("Session published successfully", draft(7, model.StatusPublished)))

	var out bytes.Buffer
	err := run(context.Background(), []string{
		"create", "--title", "Morning", "--description", "Stretch", "--tags", "yoga, calm", "--publish",
	}, strings.NewReader(""), &out)
	require.NoError(t, err)

	var got model.Session
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Equal(t, model.StatusPublished, got.Status)

	calls := f.calls()
	require.Len(t, calls, 2)
	require.Equal(t, "Bearer tok-1", calls[0].Auth)
	require.Equal(t, "yoga, calm", calls[0].Body["tags"])
	require.Equal(t, http.MethodPut, calls[1].Method)
}

func TestCreateIncompleteDraft(t *testing.T) {
	f := stubServer(t, "tok-1")

	err := run(context.Background(), []string{"create", "--title", "Only title"}, strings.NewReader(""), &bytes.Buffer{})
	require.Error(t, err)
	require.Empty(t, f.calls())
}

func TestEditReadsFieldsFromInput(t *testing.T) {
	f := stubServer(t, "tok-1")
	existing := draft(7, model.StatusDraft)
	existing.Category = "yoga"
	f.mux.HandleFunc("/api/sessions/7", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		s := *existing
		if r.Method == http.MethodPut {
			s.Title = "Evening"
		}
		_ = json.NewEncoder(w).Encode(api.OK(&s))
	})

	in := strings.NewReader("title=Evening\n\ndifficulty = advanced\n")
	var out bytes.Buffer
	err := run(context.Background(), []string{"edit", "--id", "7"}, in, &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), "[saving]")
	require.Contains(t, out.String(), "[saved]")
	require.Contains(t, out.String(), `"Evening"`)

	calls := f.calls()
	require.Len(t, calls, 2)
	require.Equal(t, http.MethodGet, calls[0].Method)
	require.Equal(t, http.MethodPut, calls[1].Method)
	require.Equal(t, "Evening", calls[1].Body["title"])
	require.Equal(t, "Stretch", calls[1].Body["description"])
	require.Equal(t, "advanced", calls[1].Body["difficulty"])
	require.Equal(t, "yoga", calls[1].Body["category"])
}

func TestEditRejectsUnknownField(t *testing.T) {
	stubServer(t, "tok-1")

	err := run(context.Background(), []string{"edit"}, strings.NewReader("mood=happy\n"), &bytes.Buffer{})
	require.EqualError(t, err, `unknown field "mood"`)

	err = run(context.Background(), []string{"edit"}, strings.NewReader("no separator\n"), &bytes.Buffer{})
	require.EqualError(t, err, `expected field=value, got "no separator"`)
}

func TestByIDCommands(t *testing.T) {
	f := stubServer(t, "tok-1")
	liked := draft(4, model.StatusPublished)
	liked.Likes = []int{3}
	f.reply(http.MethodPut, "/api/sessions/4/like", http.StatusOK, api.OKMessage("Session liked", liked))
	f.reply(http.MethodDelete, "/api/sessions/5", http.StatusOK, api.OKMessage("Session deleted successfully", api.Empty{}))
	f.reply(http.MethodPut, "/api/sessions/6/feature", http.StatusOK, api.OK(draft(6, model.StatusPublished)))
	f.reply(http.MethodGet, "/api/auth/me", http.StatusOK, api.OK(&model.User{ID: 3, Name: "Alice"}))
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, run(ctx, []string{"delete", "5"}, strings.NewReader(""), &out))
	require.Equal(t, "session 5 deleted\n", out.String())

	out.Reset()
	require.NoError(t, run(ctx, []string{"feature", "6", "--off"}, strings.NewReader(""), &out))
	calls := f.calls()
	require.Equal(t, false, calls[len(calls)-1].Body["featured"])

	out.Reset()
	require.NoError(t, run(ctx, []string{"like", "4"}, strings.NewReader(""), &out))
	require.Contains(t, out.String(), "liked: true\n")
}

func TestMainExitsOnError(t *testing.T) {
	stubServer(t, "")
	origArgs, origExit := os.Args, exitFunc
	t.Cleanup(func() { os.Args, exitFunc = origArgs, origExit })

	code := 0
	exitFunc = func(c int) { code = c }
	os.Args = []string{"sessionctl", "dance"}
	main()
	require.Equal(t, 1, code)
}
