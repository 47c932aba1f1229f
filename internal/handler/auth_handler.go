// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/hitoshi/authapi/internal/auth"
	"github.com/hitoshi/authapi/internal/logger"
	"github.com/hitoshi/authapi/internal/metrics"
	"github.com/hitoshi/authapi/internal/middleware"
	"github.com/hitoshi/authapi/internal/model"
)

// maxBodyBytes はリクエストボディの上限サイズ。
const maxBodyBytes = 1 << 20

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Register(ctx context.Context, c auth.Credentials) error
	Login(ctx context.Context, c auth.Credentials) (string, error)
}

// OutcomeRecorder は登録・ログインの結果を記録するインターフェース。
// metrics.Collectorが実装する。
type OutcomeRecorder interface {
	RecordRegistration(outcome string)
	RecordLogin(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordRegistration(string) {}
func (nopRecorder) RecordLogin(string)        {}

// AuthHandler は登録・ログイン関連のHTTPハンドラー。
type AuthHandler struct {
	service  AuthServiceInterface
	recorder OutcomeRecorder
	logger   *slog.Logger
}

// NewAuthHandler はAuthHandlerを生成する。recorderとloggerはnilでもよい。
func NewAuthHandler(service AuthServiceInterface, recorder OutcomeRecorder, logger *slog.Logger) *AuthHandler {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		service:  service,
		recorder: recorder,
		logger:   logger,
	}
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

type meResponse struct {
	Success bool           `json:"success"`
	User    model.Identity `json:"user"`
}

// Root は稼働確認用のメッセージを返す。
// GET /
func (h *AuthHandler) Root(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Auth API is running.",
	})
}

// Register はアカウントを登録する。
// POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	fields, apiErr := decodeFields(w, r)
	if apiErr != nil {
		h.recorder.RecordRegistration(metrics.OutcomeValidationFailed)
		middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	creds := auth.Credentials{
		Username: stringField(fields, "username"),
		Email:    stringField(fields, "email"),
		Password: stringField(fields, "password"),
	}

	if err := h.service.Register(r.Context(), creds); err != nil {
		h.recorder.RecordRegistration(outcomeOf(err))
		h.handleServiceError(w, r, err)
		return
	}

	h.recorder.RecordRegistration(metrics.OutcomeSuccess)
	middleware.WriteJSON(w, http.StatusCreated, successResponse{
		Success: true,
		Message: "User registered successfully.",
	})
}

// Login は認証情報を照合し、トークンを返す。
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	fields, apiErr := decodeFields(w, r)
	if apiErr != nil {
		h.recorder.RecordLogin(metrics.OutcomeValidationFailed)
		middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	creds := auth.Credentials{
		Email:    stringField(fields, "email"),
		Password: stringField(fields, "password"),
	}

	token, err := h.service.Login(r.Context(), creds)
	if err != nil {
		h.recorder.RecordLogin(outcomeOf(err))
		h.handleServiceError(w, r, err)
		return
	}

	h.recorder.RecordLogin(metrics.OutcomeSuccess)
	middleware.WriteJSON(w, http.StatusOK, successResponse{
		Success: true,
		Message: "Login successful.",
		Token:   token,
	})
}

// Me はBearerトークンで認証されたアカウント情報を返す。
// GET /me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	middleware.WriteJSON(w, http.StatusOK, meResponse{
		Success: true,
		User:    identity,
	})
}

// decodeFields はリクエストボディをJSONオブジェクトとして読み取る。
// 空のボディは空オブジェクトとして扱う。オブジェクトの後に続くデータは不正とする。
func decodeFields(w http.ResponseWriter, r *http.Request) (map[string]any, *model.APIError) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	fields := map[string]any{}

	if err := dec.Decode(&fields); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, decodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, decodeError(err)
	}
	if fields == nil {
		// "null"はオブジェクトなしとして扱う
		fields = map[string]any{}
	}
	return fields, nil
}

// decodeError はボディの読み取りエラーを検証エラーに変換する。
func decodeError(err error) *model.APIError {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return model.NewValidationError([]string{"Request body is too large."})
	}
	return model.NewValidationError([]string{"Request body must be a valid JSON object."})
}

// stringField は文字列型のフィールド値を返す。文字列以外や未指定の場合は空文字列。
func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

// outcomeOf はサービス層のエラーをメトリクスの結果ラベルに変換する。
func outcomeOf(err error) string {
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		return metrics.OutcomeError
	}
	switch apiErr.Code {
	case model.ErrCodeValidationFailed:
		return metrics.OutcomeValidationFailed
	case model.ErrCodeDuplicateEmail, model.ErrCodeDuplicateUsername, model.ErrCodeDuplicateBoth:
		return metrics.OutcomeDuplicate
	case model.ErrCodeInvalidCredentials:
		return metrics.OutcomeInvalidCredentials
	default:
		return metrics.OutcomeError
	}
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func (h *AuthHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	logger.LogError(h.logger.With(
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
	), "internal server error", err)
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeValidationFailed:
		return http.StatusBadRequest
	case model.ErrCodeDuplicateEmail, model.ErrCodeDuplicateUsername, model.ErrCodeDuplicateBoth:
		return http.StatusConflict
	case model.ErrCodeInvalidCredentials, model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}
