// Package model はドメインモデルを定義する。
package model

import (
	"strings"
	"time"
)

// Account は登録済みのアカウントを表す。
// 作成後は更新されず、プロセスの生存期間中のみ保持される。
type Account struct {
	ID           int64
	Username     string // 前後の空白を除去した入力そのまま（大文字小文字を保持）
	Email        string // 正規化済み（trim + 小文字化）
	PasswordHash string
	CreatedAt    time.Time
}

// Identity はトークンに格納するアカウントの識別情報。
// パスワードハッシュは含めない。
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Identity はアカウントからトークン用の識別情報を取り出す。
func (a *Account) Identity() Identity {
	return Identity{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
	}
}

// NormalizeEmail はメールアドレスを比較・保存用に正規化する。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeUsername はユーザー名の前後の空白を除去する。
// 保存時は大文字小文字を保持する。
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

// UsernameKey はユーザー名の一意性判定に使うキーを返す。
func UsernameKey(username string) string {
	return strings.ToLower(NormalizeUsername(username))
}
