package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/secondbrain/internal/content"
	"github.com/hitoshi/secondbrain/internal/metrics"
	"github.com/hitoshi/secondbrain/internal/middleware"
	"github.com/hitoshi/secondbrain/internal/model"
)

// ContentServiceInterface はコンテンツハンドラーが必要とするサービスインターフェース。
type ContentServiceInterface interface {
	// Create はコンテンツを作成する。
	Create(ctx context.Context, ownerID string, input content.CreateInput) (*model.Content, error)
	// List は呼び出し元が所有するコンテンツのみを返す。
	List(ctx context.Context, callerID string) ([]*model.Content, error)
	// Delete は呼び出し元が所有するコンテンツを削除する。
	Delete(ctx context.Context, callerID, contentID string) error
}

// ContentHandler はコンテンツ管理のHTTPハンドラー。
type ContentHandler struct {
	service ContentServiceInterface
	metrics metrics.Recorder
}

// NewContentHandler はContentHandlerを生成する。
func NewContentHandler(service ContentServiceInterface, recorder metrics.Recorder) *ContentHandler {
	return &ContentHandler{
		service: service,
		metrics: recorder,
	}
}

// linkRequest はコンテンツ作成リクエスト内のリンク。
type linkRequest struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// createContentRequest はコンテンツ作成リクエストのボディ。
type createContentRequest struct {
	Title string        `json:"title"`
	Links []linkRequest `json:"links"`
	Tags  []string      `json:"tags"`
}

// deleteContentRequest はコンテンツ削除リクエストのボディ。
type deleteContentRequest struct {
	ContentID string `json:"contentId"`
}

// linkResponse はリンクのAPIレスポンス。
type linkResponse struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// contentResponse はコンテンツのAPIレスポンス。
type contentResponse struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Links     []linkResponse `json:"links"`
	Tags      []string       `json:"tags"`
	UserID    string         `json:"userId"`
	Username  string         `json:"username,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Create はコンテンツ作成を処理する。
// POST /api/v1/content
func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req createContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}

	input := content.CreateInput{
		Title: req.Title,
		Tags:  req.Tags,
	}
	for _, l := range req.Links {
		input.Links = append(input.Links, content.LinkInput{URL: l.URL, MediaType: l.Type})
	}

	created, err := h.service.Create(r.Context(), userID, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordContentCreated()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"content": toContentResponse(created),
	})
}

// List は呼び出し元が所有するコンテンツの一覧を返す。
// GET /api/v1/content
func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	contents, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]contentResponse, 0, len(contents))
	for _, c := range contents {
		responses = append(responses, toContentResponse(c))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"content": responses,
	})
}

// Delete はコンテンツ削除を処理する。
// DELETE /api/v1/content
func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req deleteContentRequest
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

	if err := h.service.Delete(r.Context(), userID, req.ContentID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "コンテンツを削除しました。",
	})
}

// toContentResponse はドメインモデルをAPIレスポンスに変換する。
// 所有者の認証情報は含めず、表示名のみを公開する。
func toContentResponse(c *model.Content) contentResponse {
	links := make([]linkResponse, 0, len(c.Links))
	for _, l := range c.Links {
		links = append(links, linkResponse{URL: l.URL, Type: l.MediaType})
	}

	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}

	return contentResponse{
		ID:        c.ID,
		Title:     c.Title,
		Links:     links,
		Tags:      tags,
		UserID:    c.OwnerID,
		Username:  c.OwnerName,
		CreatedAt: c.CreatedAt,
	}
}
