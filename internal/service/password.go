// File: internal/service/password.go
package service

import (
	"golang.org/x/crypto/bcrypt"
)

// 註冊與改密碼共用的長度限制；bcrypt 只接受 72 bytes 以內
const (
	MinPasswordLength = 6
	MaxPasswordBytes  = 72
)

var (
	bcryptGenerateFromPassword   = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
)

// checkPassword 檢查新密碼長度，超出 bcrypt 上限視為輸入錯誤
func checkPassword(password string) error {
	if len(password) < MinPasswordLength {
		return newError(KindValidation, "password must be at least %d characters", MinPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		return newError(KindValidation, "password cannot exceed %d bytes", MaxPasswordBytes)
	}
	return nil
}

// HashPassword 接收明文密碼，回傳 bcrypt 哈希字串
func HashPassword(password string) (string, error) {
	hashBytes, err := bcryptGenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// ComparePassword 比對明文密碼與 bcrypt 哈希，成功回傳 nil，失敗則回傳錯誤
func ComparePassword(hash, password string) error {
	return bcryptCompareHashAndPassword([]byte(hash), []byte(password))
}
