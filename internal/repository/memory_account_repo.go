package repository

import (
	"context"
	"sync"
	"time"

	"github.com/hitoshi/authapi/internal/model"
)

// MemoryAccountRepo はプロセス内メモリにアカウントを保持するリポジトリ。
// 再起動するとすべてのアカウントが失われる。
// 検索は線形走査で行う。
type MemoryAccountRepo struct {
	mu       sync.RWMutex
	accounts []model.Account
	nextID   int64
	now      func() time.Time
}

// NewMemoryAccountRepo はMemoryAccountRepoを生成する。
func NewMemoryAccountRepo() *MemoryAccountRepo {
	return &MemoryAccountRepo{
		nextID: 1,
		now:    time.Now,
	}
}

// FindByEmail は正規化済みメールアドレスでアカウントを検索する。見つからない場合はnilを返す。
func (r *MemoryAccountRepo) FindByEmail(_ context.Context, email string) (*model.Account, error) {
	key := model.NormalizeEmail(email)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexByEmail(key); i >= 0 {
		acc := r.accounts[i]
		return &acc, nil
	}
	return nil, nil
}

// FindByUsername はユーザー名を大文字小文字を区別せずに検索する。見つからない場合はnilを返す。
func (r *MemoryAccountRepo) FindByUsername(_ context.Context, username string) (*model.Account, error) {
	key := model.UsernameKey(username)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexByUsername(key); i >= 0 {
		acc := r.accounts[i]
		return &acc, nil
	}
	return nil, nil
}

// Create は一意性の検査と追加を同一ロック内で行う。
// ID と CreatedAt はここで採番され、引数の値は無視される。
func (r *MemoryAccountRepo) Create(_ context.Context, account *model.Account) (*model.Account, error) {
	email := model.NormalizeEmail(account.Email)
	username := model.NormalizeUsername(account.Username)

	r.mu.Lock()
	defer r.mu.Unlock()

	dup := &DuplicateError{
		Email:    r.indexByEmail(email) >= 0,
		Username: r.indexByUsername(model.UsernameKey(username)) >= 0,
	}
	if dup.Email || dup.Username {
		return nil, dup
	}

	stored := model.Account{
		ID:           r.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: account.PasswordHash,
		CreatedAt:    r.now(),
	}
	r.nextID++
	r.accounts = append(r.accounts, stored)

	return &stored, nil
}

// Count は保持しているアカウント数を返す。
func (r *MemoryAccountRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts), nil
}

// indexByEmail はロック取得済みの状態で呼び出すこと。
func (r *MemoryAccountRepo) indexByEmail(email string) int {
	for i := range r.accounts {
		if r.accounts[i].Email == email {
			return i
		}
	}
	return -1
}

// indexByUsername はロック取得済みの状態で呼び出すこと。
func (r *MemoryAccountRepo) indexByUsername(key string) int {
	for i := range r.accounts {
		if model.UsernameKey(r.accounts[i].Username) == key {
			return i
		}
	}
	return -1
}

// compile-time interface check
var _ AccountRepository = (*MemoryAccountRepo)(nil)
