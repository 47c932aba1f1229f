// Package repository はアカウントデータの保持とインターフェースを定義する。
package repository

import (
	"context"
	"fmt"

	"github.com/hitoshi/authapi/internal/model"
)

// AccountRepository はアカウントの保持インターフェース。
// 追加と検索のみを提供し、更新・削除は行わない。
type AccountRepository interface {
	// FindByEmail は正規化済みメールアドレスでアカウントを検索する。
	// 見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.Account, error)

	// FindByUsername はユーザー名を大文字小文字を区別せずに検索する。
	// 見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.Account, error)

	// Create は一意性を検査したうえでアカウントを追加し、採番済みのアカウントを返す。
	// メールアドレスまたはユーザー名が既に存在する場合は*DuplicateErrorを返し、何も追加しない。
	Create(ctx context.Context, account *model.Account) (*model.Account, error)

	// Count は保持しているアカウント数を返す。
	Count(ctx context.Context) (int, error)
}

// DuplicateError は一意性制約に違反した項目を表す。
type DuplicateError struct {
	Email    bool
	Username bool
}

// Error はerrorインターフェースを実装する。
func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate account (email=%t, username=%t)", e.Email, e.Username)
}
