// File: cmd/sessionctl/main.go
// sessionctl 是 wellness-hub API 的命令列客戶端。
// 設定來自 API_URL、API_TOKEN、AUTOSAVE_DELAY 或 --config / CONFIG_FILE 指定的 YAML
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"wellness-hub/internal/api"
	"wellness-hub/internal/client"
	"wellness-hub/internal/config"
	"wellness-hub/internal/editor"
	"wellness-hub/internal/model"

	"github.com/spf13/cobra"
)

var (
	loadClientConfig = config.LoadClient
	exitFunc         = os.Exit
)

type app struct {
	client *client.Client
	delay  time.Duration
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newRootCmd 組出所有子命令；設定在子命令執行前才載入
func newRootCmd() *cobra.Command {
	a := &app{}
	var configFile string

	root := &cobra.Command{
		Use:           "sessionctl",
		Short:         "Command line client for the wellness-hub API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadClientConfig(configFile)
			if err != nil {
				return err
			}
			auth := client.NewAuthState()
			if cfg.APIToken != "" {
				auth.Set(cfg.APIToken, nil)
			}
			a.client = client.New(cfg.APIURL, auth, nil)
			a.delay = cfg.AutosaveDelay
			return nil
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVar(&configFile, "config", os.Getenv("CONFIG_FILE"), "YAML config file")

	root.AddCommand(
		a.registerCmd(),
		a.loginCmd(),
		&cobra.Command{
			Use:   "logout",
			Short: "Revoke the current token",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.client.Logout(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "me",
			Short: "Show the logged-in user",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				u, err := a.client.Me(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd, u)
			},
		},
		a.listCmd(),
		a.mineCmd(),
		a.showCmd(),
		a.createCmd(),
		a.editCmd(),
		a.publishCmd(),
		a.likeCmd(),
		a.deleteCmd(),
		a.featureCmd(),
	)
	return root
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	return root.ExecuteContext(ctx)
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid session id %q", arg)
	}
	return id, nil
}

func (a *app) registerCmd() *cobra.Command {
	var req api.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and print its token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.client.Register(cmd.Context(), req); err != nil {
				return err
			}
			return a.printAuth(cmd)
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "email")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	return cmd
}

func (a *app) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print the token to export as API_TOKEN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.client.Login(cmd.Context(), email, password); err != nil {
				return err
			}
			return a.printAuth(cmd)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email")
	cmd.Flags().StringVar(&password, "password", "", "password")
	return cmd
}

// printAuth 輸出 token，之後以 API_TOKEN 環境變數帶入
func (a *app) printAuth(cmd *cobra.Command) error {
	auth := a.client.Auth()
	return printJSON(cmd, api.AuthData{Token: auth.Token(), User: auth.User()})
}

func (a *app) listCmd() *cobra.Command {
	var f model.SessionFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List published sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.client.ListSessions(cmd.Context(), f)
			if err != nil {
				return err
			}
			return printJSON(cmd, page)
		},
	}
	cmd.Flags().IntVar(&f.Page, "page", 0, "page")
	cmd.Flags().IntVar(&f.Limit, "limit", 0, "page size")
	cmd.Flags().StringVar(&f.Search, "search", "", "free text")
	cmd.Flags().StringVar(&f.Category, "category", "", "category")
	cmd.Flags().StringVar(&f.Difficulty, "difficulty", "", "difficulty")
	cmd.Flags().BoolVar(&f.Featured, "featured", false, "featured only")
	return cmd
}

func (a *app) mineCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List your own sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := a.client.MySessions(cmd.Context(), status)
			if err != nil {
				return err
			}
			return printJSON(cmd, items)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "draft or published")
	return cmd
}

// sessionCmd 是只接受一個 session id 的子命令
func sessionCmd(use, short string, fn func(cmd *cobra.Command, id int) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return fn(cmd, id)
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	return sessionCmd("show", "Show one session", func(cmd *cobra.Command, id int) error {
		s, err := a.client.GetSession(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(cmd, s)
	})
}

func (a *app) publishCmd() *cobra.Command {
	return sessionCmd("publish", "Publish a draft", func(cmd *cobra.Command, id int) error {
		s, err := a.client.PublishSession(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(cmd, s)
	})
}

func (a *app) likeCmd() *cobra.Command {
	return sessionCmd("like", "Like or unlike a published session", func(cmd *cobra.Command, id int) error {
		if err := a.resolveUser(cmd.Context()); err != nil {
			return err
		}
		s, liked, err := a.client.ToggleLike(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "liked: %t\n", liked)
		return printJSON(cmd, s)
	})
}

func (a *app) deleteCmd() *cobra.Command {
	return sessionCmd("delete", "Delete a session", func(cmd *cobra.Command, id int) error {
		if err := a.client.DeleteSession(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "session %d deleted\n", id)
		return nil
	})
}

func (a *app) featureCmd() *cobra.Command {
	var off bool
	cmd := sessionCmd("feature", "Mark a session as featured (admin)", func(cmd *cobra.Command, id int) error {
		s, err := a.client.FeatureSession(cmd.Context(), id, !off)
		if err != nil {
			return err
		}
		return printJSON(cmd, s)
	})
	cmd.Flags().BoolVar(&off, "off", false, "remove from featured")
	return cmd
}

// resolveUser 以 API_TOKEN 登入時只有 token，需要向伺服器取回使用者
func (a *app) resolveUser(ctx context.Context) error {
	auth := a.client.Auth()
	if !auth.LoggedIn() || auth.User() != nil {
		return nil
	}
	u, err := a.client.Me(ctx)
	if err != nil {
		return err
	}
	auth.Set(auth.Token(), u)
	return nil
}

func draftFlags(cmd *cobra.Command, d *editor.Draft) {
	cmd.Flags().StringVar(&d.Title, "title", "", "title")
	cmd.Flags().StringVar(&d.Description, "description", "", "description")
	cmd.Flags().StringVar(&d.Tags, "tags", "", "comma separated tags")
	cmd.Flags().StringVar(&d.Category, "category", "", "category")
	cmd.Flags().StringVar(&d.Difficulty, "difficulty", "", "difficulty")
	cmd.Flags().StringVar(&d.Duration, "duration", "", "duration, e.g. 30 min")
	cmd.Flags().StringVar(&d.JSONFileURL, "url", "", "session JSON file URL")
}

// createCmd 走與編輯畫面相同的存檔流程：手動存檔或直接發佈
func (a *app) createCmd() *cobra.Command {
	var (
		d       editor.Draft
		publish bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Save a new draft, optionally publishing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ed := editor.New(a.client, a.delay)
			defer ed.Close()
			ed.Edit(d)
			return finish(cmd, ed, publish)
		},
	}
	draftFlags(cmd, &d)
	cmd.Flags().BoolVar(&publish, "publish", false, "publish right away")
	return cmd
}

func finish(cmd *cobra.Command, ed *editor.Editor, publish bool) error {
	var (
		s   *model.Session
		err error
	)
	if publish {
		s, err = ed.Publish(cmd.Context())
	} else {
		s, err = ed.SaveDraft(cmd.Context())
	}
	if err != nil {
		return err
	}
	return printJSON(cmd, s)
}

func setField(d *editor.Draft, line string) error {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return fmt.Errorf("expected field=value, got %q", line)
	}
	value = strings.TrimSpace(value)
	switch strings.TrimSpace(key) {
	case "title":
		d.Title = value
	case "description":
		d.Description = value
	case "tags":
		d.Tags = value
	case "category":
		d.Category = value
	case "difficulty":
		d.Difficulty = value
	case "duration":
		d.Duration = value
	case "url", "json_file_url":
		d.JSONFileURL = value
	default:
		return fmt.Errorf("unknown field %q", key)
	}
	return nil
}

func draftOf(s *model.Session) editor.Draft {
	d := editor.Draft{
		Title:       s.Title,
		Description: s.Description,
		Tags:        strings.Join(s.Tags, ","),
		Duration:    s.Duration,
		Difficulty:  s.Difficulty,
		Category:    s.Category,
	}
	if s.JSONFileURL != nil {
		d.JSONFileURL = *s.JSONFileURL
	}
	return d
}

// editCmd 每讀到一行就更新草稿，停頓超過 AUTOSAVE_DELAY 會自動存檔；EOF 時立即存檔
func (a *app) editCmd() *cobra.Command {
	var (
		id      int
		publish bool
	)
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a draft from field=value lines on stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			var d editor.Draft
			opts := []editor.Option{editor.OnStateChange(func(s editor.State) {
				fmt.Fprintf(out, "[%s]\n", s)
			})}
			if id > 0 {
				s, err := a.client.GetSession(cmd.Context(), id)
				if err != nil {
					return err
				}
				d = draftOf(s)
				opts = append(opts, editor.WithSessionID(s.ID))
			}

			ed := editor.New(a.client, a.delay, opts...)
			defer ed.Close()

			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				line := strings.TrimSpace(sc.Text())
				if line == "" {
					continue
				}
				if err := setField(&d, line); err != nil {
					return err
				}
				ed.Edit(d)
			}
			if err := sc.Err(); err != nil {
				return err
			}
			return finish(cmd, ed, publish)
		},
	}
	cmd.Flags().IntVar(&id, "id", 0, "existing session id")
	cmd.Flags().BoolVar(&publish, "publish", false, "publish when input ends")
	return cmd
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
