// Package auth は入力検証、パスワードハッシュ、トークン発行による登録・ログイン処理を提供する。
package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/oops"

	"github.com/hitoshi/authapi/internal/model"
	"github.com/hitoshi/authapi/internal/repository"
)

// TokenSigner はログイン成功時にトークンを発行するインターフェース。
type TokenSigner interface {
	Issue(identity model.Identity) (string, error)
}

// Observer はハッシュ処理時間とアカウント数を記録するインターフェース。
// metrics.Collectorが実装する。
type Observer interface {
	ObservePasswordHash(operation string, d time.Duration)
	SetAccountCount(n int)
}

type nopObserver struct{}

func (nopObserver) ObservePasswordHash(string, time.Duration) {}
func (nopObserver) SetAccountCount(int)                       {}

// dummyPassword は未登録メールアドレスでのログイン時に照合するダミーのパスワード。
// 応答時間からアカウントの有無を推測されないようにする。
const dummyPassword = "authapi-dummy-password-never-matches"

// Service は登録・ログインのビジネスロジックを提供する。
type Service struct {
	accounts repository.AccountRepository
	hasher   PasswordHasher
	tokens   TokenSigner
	observer Observer
	logger   *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// Option はServiceの任意設定。
type Option func(*Service)

// WithObserver はメトリクス記録先を設定する。
func WithObserver(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithLogger はログ出力先を設定する。
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService はServiceを生成する。
func NewService(accounts repository.AccountRepository, hasher PasswordHasher, tokens TokenSigner, opts ...Option) *Service {
	s := &Service{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		observer: nopObserver{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register は入力を検証し、重複がなければアカウントを作成する。
// 失敗時は*model.APIErrorまたはoopsでラップした内部エラーを返し、アカウントは追加しない。
func (s *Service) Register(ctx context.Context, c Credentials) error {
	// 1. 入力検証
	if errs := Validate(c, true); len(errs) > 0 {
		return model.NewValidationError(errs)
	}

	// 2. 正規化
	email := model.NormalizeEmail(c.Email)
	username := model.NormalizeUsername(c.Username)

	// 3. 重複確認（両方とも必ず検査する）
	byEmail, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return oops.Code("AUTH_STORE_FAILED").With("operation", "find by email").Wrap(err)
	}
	byUsername, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		return oops.Code("AUTH_STORE_FAILED").With("operation", "find by username").Wrap(err)
	}
	if byEmail != nil || byUsername != nil {
		return model.NewDuplicateError(byEmail != nil, byUsername != nil)
	}

	// 4. パスワードハッシュ
	start := time.Now()
	hash, err := s.hasher.Hash(c.Password)
	s.observer.ObservePasswordHash("hash", time.Since(start))
	if err != nil {
		return oops.Code("AUTH_HASH_FAILED").With("operation", "hash password").Wrap(err)
	}

	// 5. 追加（一意性はリポジトリ側で再検査される）
	account, err := s.accounts.Create(ctx, &model.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			return model.NewDuplicateError(dup.Email, dup.Username)
		}
		return oops.Code("AUTH_STORE_FAILED").With("operation", "create account").Wrap(err)
	}

	if n, err := s.accounts.Count(ctx); err == nil {
		s.observer.SetAccountCount(n)
	}

	s.logger.Info("account registered",
		slog.Int64("account_id", account.ID),
	)

	return nil
}

// Login は認証情報を照合し、成功時に署名付きトークンを返す。
// 未登録メールアドレスとパスワード不一致は同じエラーを返す。
func (s *Service) Login(ctx context.Context, c Credentials) (string, error) {
	// 1. 入力検証
	if errs := Validate(c, false); len(errs) > 0 {
		return "", model.NewValidationError(errs)
	}

	// 2. アカウント検索
	account, err := s.accounts.FindByEmail(ctx, model.NormalizeEmail(c.Email))
	if err != nil {
		return "", oops.Code("AUTH_STORE_FAILED").With("operation", "find by email").Wrap(err)
	}

	// 3. 未登録の場合もダミーハッシュで照合し、応答時間を揃える
	if account == nil {
		if hash := s.getDummyHash(); hash != "" {
			_, _ = s.hasher.Verify(c.Password, hash)
		}
		return "", model.NewInvalidCredentialsError()
	}

	// 4. パスワード照合
	start := time.Now()
	ok, err := s.hasher.Verify(c.Password, account.PasswordHash)
	s.observer.ObservePasswordHash("verify", time.Since(start))
	if err != nil {
		return "", oops.Code("AUTH_VERIFY_FAILED").
			With("operation", "verify password").
			With("account_id", account.ID).
			Wrap(err)
	}
	if !ok {
		return "", model.NewInvalidCredentialsError()
	}

	// 5. トークン発行
	token, err := s.tokens.Issue(account.Identity())
	if err != nil {
		return "", oops.Code("AUTH_SIGN_FAILED").
			With("operation", "issue token").
			With("account_id", account.ID).
			Wrap(err)
	}

	s.logger.Info("account logged in",
		slog.Int64("account_id", account.ID),
	)

	return token, nil
}

// getDummyHash はダミーパスワードのハッシュを初回呼び出し時に生成して返す。
// 生成に失敗した場合は空文字列を返す。
func (s *Service) getDummyHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.logger.Warn("failed to prepare dummy password hash", slog.String("error", err.Error()))
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
