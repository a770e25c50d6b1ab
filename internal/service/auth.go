package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"wellness-hub/internal/database"
	"wellness-hub/internal/model"
	"wellness-hub/internal/store"

	"github.com/jackc/pgx/v5"
)

// 所有登入失敗情境共用同一訊息，避免洩漏帳號是否存在
const msgInvalidCredentials = "Invalid credentials"

var (
	getUserByEmail      = store.GetUserByEmail
	getUserByID         = store.GetUserByID
	createUser          = store.CreateUser
	updateUser          = store.UpdateUser
	updateUserPassword  = store.UpdateUserPassword
	updateUserLastLogin = store.UpdateUserLastLogin
	hashPassword        = HashPassword
	issueAccessToken    = IssueAccessToken
)

// AuthResult 是註冊與登入成功後回給客戶端的內容
type AuthResult struct {
	Token string
	User  *model.User
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// UpdateDetailsInput 只更新非 nil 欄位
type UpdateDetailsInput struct {
	Name  *string
	Email *string
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", newError(KindValidation, "Please provide an email and password")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return "", newError(KindValidation, "please provide a valid email")
	}
	return email, nil
}

// Register 建立新帳號並發行 token；name 為空時取 email 的 local part
func Register(ctx context.Context, db database.DB, in RegisterInput, ttl time.Duration) (*AuthResult, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}

	if _, err := getUserByEmail(ctx, db, email); err == nil {
		return nil, newError(KindConflict, "User already exists")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := createUser(ctx, db, &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		IsActive:     true,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, newError(KindConflict, "User already exists")
		}
		return nil, err
	}

	return issueFor(user, ttl)
}

// Login 驗證 email/密碼；帳號不存在、停用或密碼錯誤都回傳相同的 Unauthorized
func Login(ctx context.Context, db database.DB, email, password string, ttl time.Duration) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, newError(KindValidation, "Please provide an email and password")
	}

	user, err := getUserByEmail(ctx, db, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, newError(KindUnauthorized, msgInvalidCredentials)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, newError(KindUnauthorized, msgInvalidCredentials)
	}
	if err := AuthenticateUser(ctx, *user, password); err != nil {
		return nil, newError(KindUnauthorized, msgInvalidCredentials)
	}

	return issueFor(user, ttl)
}

func issueFor(user *model.User, ttl time.Duration) (*AuthResult, error) {
	token, err := issueAccessToken(*user, ttl)
	if err != nil {
		return nil, err
	}
	now := timeNow()
	user.LastLogin = &now
	return &AuthResult{Token: token, User: user}, nil
}

// RecordLogin 寫入最後登入時間，由 worker 在請求結束後執行
func RecordLogin(ctx context.Context, db database.DB, userID int, at time.Time) error {
	return updateUserLastLogin(ctx, db, userID, at)
}

// CurrentUser 讀取 token 對應的使用者；帳號已不存在或停用視為未授權
func CurrentUser(ctx context.Context, db database.DB, id Identity) (*model.User, error) {
	user, err := getUserByID(ctx, db, id.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, newError(KindUnauthorized, "Not authorized to access this route")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, newError(KindUnauthorized, "Not authorized to access this route")
	}
	return user, nil
}

func UpdateDetails(ctx context.Context, db database.DB, id Identity, in UpdateDetailsInput) (*model.User, error) {
	user, err := CurrentUser(ctx, db, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, newError(KindValidation, "name is required")
		}
		user.Name = name
	}
	if in.Email != nil {
		email, err := normalizeEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		if email != user.Email {
			if _, err := getUserByEmail(ctx, db, email); err == nil {
				return nil, newError(KindConflict, "Email already in use")
			} else if !errors.Is(err, pgx.ErrNoRows) {
				return nil, err
			}
		}
		user.Email = email
	}

	if err := updateUser(ctx, db, user); err != nil {
		if isUniqueViolation(err) {
			return nil, newError(KindConflict, "Email already in use")
		}
		return nil, err
	}
	return user, nil
}

// UpdatePassword 需先驗證目前密碼才接受新密碼
func UpdatePassword(ctx context.Context, db database.DB, id Identity, current, next string) error {
	if current == "" || next == "" {
		return newError(KindValidation, "Please provide current and new password")
	}
	if err := checkPassword(next); err != nil {
		return err
	}

	user, err := CurrentUser(ctx, db, id)
	if err != nil {
		return err
	}
	if err := AuthenticateUser(ctx, *user, current); err != nil {
		return newError(KindUnauthorized, "Password is incorrect")
	}

	hash, err := hashPassword(next)
	if err != nil {
		return err
	}
	return updateUserPassword(ctx, db, user.ID, hash)
}
