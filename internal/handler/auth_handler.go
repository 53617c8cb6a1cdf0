// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hitoshi/secondbrain/internal/metrics"
	"github.com/hitoshi/secondbrain/internal/model"
)

// IdentityServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type IdentityServiceInterface interface {
	// Register は新規ユーザーを登録し、生成したユーザーIDを返す。
	Register(ctx context.Context, username, password string) (string, error)
	// Authenticate は認証情報を検証し、セッショントークンを発行する。
	Authenticate(ctx context.Context, username, password string) (string, error)
}

// AuthHandler はユーザー登録・サインインのHTTPハンドラー。
type AuthHandler struct {
	service IdentityServiceInterface
	metrics metrics.Recorder
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service IdentityServiceInterface, recorder metrics.Recorder) *AuthHandler {
	return &AuthHandler{
		service: service,
		metrics: recorder,
	}
}

// credentialsRequest は登録・サインイン共通のリクエストボディ。
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup は新規ユーザー登録を処理する。
// POST /api/v1/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}

	if _, err := h.service.Register(r.Context(), req.Username, req.Password); err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordSignup()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "ユーザーを作成しました。",
	})
}

// Signin は認証情報を検証し、セッショントークンを返す。
// POST /api/v1/signin
//
// ユーザー不存在とパスワード不一致は同一の401レスポンスに畳み込む
// （ユーザー名の存在有無を外部に漏らさないため）。
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}

	token, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.metrics.RecordSignin(false)

		var apiErr *model.APIError
		if errors.As(err, &apiErr) &&
			(apiErr.Code == model.ErrCodeUserNotFound || apiErr.Code == model.ErrCodeInvalidCredentials) {
			writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewInvalidCredentialsError())
			return
		}
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordSignin(true)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"token": token,
	})
}
