package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/secondbrain/internal/metrics"
	"github.com/hitoshi/secondbrain/internal/middleware"
	"github.com/hitoshi/secondbrain/internal/model"
)

// ShareServiceInterface は共有ハンドラーが必要とするサービスインターフェース。
type ShareServiceInterface interface {
	// Share は共有トークンを発行（または再発行）し、共有URLを返す。
	Share(ctx context.Context, callerID, contentID string) (*model.ShareLink, string, error)
	// Resolve は共有トークンをコンテンツに解決する。認証不要。
	Resolve(ctx context.Context, token string) (*model.Content, error)
}

// ShareHandler は共有トークンの発行・解決のHTTPハンドラー。
type ShareHandler struct {
	service ShareServiceInterface
	metrics metrics.Recorder
}

// NewShareHandler はShareHandlerを生成する。
func NewShareHandler(service ShareServiceInterface, recorder metrics.Recorder) *ShareHandler {
	return &ShareHandler{
		service: service,
		metrics: recorder,
	}
}

// shareRequest は共有リクエストのボディ。
type shareRequest struct {
	ContentID string `json:"contentId"`
}

// shareLinkResponse は共有リンクレコードのAPIレスポンス。
type shareLinkResponse struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	ContentID string    `json:"contentId"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Share はコンテンツの共有トークン発行を処理する。
// POST /api/v1/brain/share
func (h *ShareHandler) Share(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}
	if req.ContentID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("contentIdは必須です"))
		return
	}

	link, shareURL, err := h.service.Share(r.Context(), userID, req.ContentID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordShareCreated()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message":   "コンテンツを共有しました。",
		"shareLink": shareURL,
		"link": shareLinkResponse{
			ID:        link.ID,
			Token:     link.Token,
			ContentID: link.ContentID,
			Title:     link.Title,
			CreatedAt: link.CreatedAt,
			UpdatedAt: link.UpdatedAt,
		},
	})
}

// Resolve は共有トークンを解決し、紐づくコンテンツを返す。
// GET /api/v1/brain/{shareLink}
//
// トークン保持者なら誰でも解決できる公開エンドポイント。認証は要求しない。
func (h *ShareHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "shareLink")

	resolved, err := h.service.Resolve(r.Context(), token)
	if err != nil {
		h.metrics.RecordShareResolve(false)
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordShareResolve(true)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"content": toContentResponse(resolved),
	})
}
