package model

import "fmt"

// APIError はクライアントに返すエラーを表す。
// Errorsはバリデーション失敗時のみ設定される。
type APIError struct {
	Code    string   // エラーコード
	Message string   // エラーメッセージ
	Errors  []string // 項目ごとの失敗理由
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeDuplicateEmail     = "DUPLICATE_EMAIL"
	ErrCodeDuplicateUsername  = "DUPLICATE_USERNAME"
	ErrCodeDuplicateBoth      = "DUPLICATE_BOTH"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// NewValidationError は入力検証エラーを生成する。
func NewValidationError(errs []string) *APIError {
	return &APIError{
		Code:    ErrCodeValidationFailed,
		Message: "Validation failed.",
		Errors:  errs,
	}
}

// NewDuplicateError は重複登録エラーを生成する。
// メールアドレスとユーザー名の両方が重複している場合は専用のコードを使う。
func NewDuplicateError(emailTaken, usernameTaken bool) *APIError {
	switch {
	case emailTaken && usernameTaken:
		return &APIError{
			Code:    ErrCodeDuplicateBoth,
			Message: "Email and username are already taken.",
		}
	case emailTaken:
		return &APIError{
			Code:    ErrCodeDuplicateEmail,
			Message: "Email is already registered.",
		}
	default:
		return &APIError{
			Code:    ErrCodeDuplicateUsername,
			Message: "Username is already taken.",
		}
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// メールアドレス未登録とパスワード不一致を区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:    ErrCodeInvalidCredentials,
		Message: "Invalid email or password.",
	}
}

// NewUnauthorizedError はトークン未指定・無効時のエラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:    ErrCodeUnauthorized,
		Message: "Authentication required.",
	}
}

// NewNotFoundError は未定義ルートへのアクセス時のエラーを生成する。
func NewNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeNotFound,
		Message: "Not found.",
	}
}

// NewMethodNotAllowedError は未対応メソッドでのアクセス時のエラーを生成する。
func NewMethodNotAllowedError() *APIError {
	return &APIError{
		Code:    ErrCodeMethodNotAllowed,
		Message: "Method not allowed.",
	}
}

// NewInternalError は内部エラーを生成する。詳細はログのみに記録する。
func NewInternalError() *APIError {
	return &APIError{
		Code:    ErrCodeInternal,
		Message: "Internal server error.",
	}
}
