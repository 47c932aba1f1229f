package auth

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// 入力値の長さ制限（前後の空白を除去した文字数）
const (
	MaxEmailLength    = 254
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MinUsernameLength = 3
	MaxUsernameLength = 30
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// isEmailSpace は正規表現の\sが対象としないUnicodeの空白も含めて判定する。
func isEmailSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// Credentials は登録・ログインリクエストの入力値。
// JSON上で欠落している項目や文字列以外の値は空文字列として扱う。
type Credentials struct {
	Username string
	Email    string
	Password string
}

// Validate は入力値を検証し、失敗理由の一覧を返す。
// 空の一覧は入力が受理可能であることを示す。
// 項目ごとの検査は打ち切らずにすべて実行する。
// 同じ項目の長さエラーと形式エラーは同時に報告しない。
func Validate(c Credentials, requireUsername bool) []string {
	errs := []string{}

	email := strings.TrimSpace(c.Email)
	switch {
	case email == "":
		errs = append(errs, "Email is required.")
	case utf8.RuneCountInString(email) > MaxEmailLength:
		errs = append(errs, "Email must be at most 254 characters.")
	case !emailPattern.MatchString(email) || strings.IndexFunc(email, isEmailSpace) >= 0:
		errs = append(errs, "Email format is invalid.")
	}

	password := strings.TrimSpace(c.Password)
	switch n := utf8.RuneCountInString(password); {
	case password == "":
		errs = append(errs, "Password is required.")
	case n < MinPasswordLength:
		errs = append(errs, "Password must be at least 8 characters.")
	case n > MaxPasswordLength:
		errs = append(errs, "Password must be at most 128 characters.")
	}

	if requireUsername {
		username := strings.TrimSpace(c.Username)
		switch n := utf8.RuneCountInString(username); {
		case username == "":
			errs = append(errs, "Username is required.")
		case n < MinUsernameLength:
			errs = append(errs, "Username must be at least 3 characters.")
		case n > MaxUsernameLength:
			errs = append(errs, "Username must be at most 30 characters.")
		}
	}

	return errs
}
