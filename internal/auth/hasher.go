package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher はパスワードのハッシュ化と照合を提供する。
type PasswordHasher interface {
	// Hash はパスワードのハッシュを生成する。
	Hash(password string) (string, error)

	// Verify はパスワードとハッシュを照合する。
	// 一致すれば(true, nil)、不一致なら(false, nil)、ハッシュが不正ならエラーを返す。
	Verify(password, hash string) (bool, error)
}

// BcryptHasher はbcryptによるPasswordHasherの実装。
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher はBcryptHasherを生成する。
// コスト係数はbcryptの有効範囲に丸める。
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash はパスワードのbcryptハッシュを生成する。
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(prehash(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify はパスワードとbcryptハッシュを照合する。
func (h *BcryptHasher) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), prehash(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// prehash はbcryptの72バイト制限に収めるため、SHA-256ダイジェストをbase64化した44バイトを返す。
// 128文字のマルチバイトパスワードも切り捨てなしで扱える。
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// Ensure BcryptHasher implements PasswordHasher.
var _ PasswordHasher = (*BcryptHasher)(nil)
