package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/secondbrain/internal/model"
)

// mockShareService はShareServiceInterfaceのモック実装。
type mockShareService struct {
	shareFn   func(ctx context.Context, callerID, contentID string) (*model.ShareLink, string, error)
	resolveFn func(ctx context.Context, token string) (*model.Content, error)
}

func (m *mockShareService) Share(ctx context.Context, callerID, contentID string) (*model.ShareLink, string, error) {
	if m.shareFn != nil {
		return m.shareFn(ctx, callerID, contentID)
	}
	return nil, "", model.NewInternalError()
}

func (m *mockShareService) Resolve(ctx context.Context, token string) (*model.Content, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, token)
	}
	return nil, model.NewShareLinkNotFoundError()
}

func TestShareHandler_Share_Success(t *testing.T) {
	now := time.Now()
	svc := &mockShareService{
		shareFn: func(ctx context.Context, callerID, contentID string) (*model.ShareLink, string, error) {
			if callerID != "user-1" || contentID != "c-1" {
				t.Errorf("Share(%q, %q), want (user-1, c-1)", callerID, contentID)
			}
			link := &model.ShareLink{
				ID:        "s-1",
				Token:     "aabbccddeeff00112233445566778899",
				OwnerID:   callerID,
				ContentID: contentID,
				Title:     "my notes",
				CreatedAt: now,
				UpdatedAt: now,
			}
			return link, "https://app.example.com/shared/" + link.Token, nil
		},
	}
	h := NewShareHandler(svc, newTestRecorder())

	req := withUserID(httptest.NewRequest(http.MethodPost, "/api/v1/brain/share",
		strings.NewReader(`{"contentId":"c-1"}`)), "user-1")
	w := httptest.NewRecorder()

	h.Share(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Message   string            `json:"message"`
		ShareLink string            `json:"shareLink"`
		Link      shareLinkResponse `json:"link"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if resp.ShareLink != "https://app.example.com/shared/aabbccddeeff00112233445566778899" {
		t.Errorf("shareLink = %q", resp.ShareLink)
	}
	if resp.Link.Token != "aabbccddeeff00112233445566778899" {
		t.Errorf("link token = %q", resp.Link.Token)
	}
	if resp.Link.ContentID != "c-1" {
		t.Errorf("link contentId = %q, want %q", resp.Link.ContentID, "c-1")
	}
}

func TestShareHandler_Share_NoAuthContext(t *testing.T) {
	h := NewShareHandler(&mockShareService{}, newTestRecorder())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/brain/share",
		strings.NewReader(`{"contentId":"c-1"}`))
	w := httptest.NewRecorder()

	h.Share(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestShareHandler_Share_MissingContentID(t *testing.T) {
	h := NewShareHandler(&mockShareService{}, newTestRecorder())

	req := withUserID(httptest.NewRequest(http.MethodPost, "/api/v1/brain/share",
		strings.NewReader(`{}`)), "user-1")
	w := httptest.NewRecorder()

	h.Share(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestShareHandler_Share_NotOwned(t *testing.T) {
	svc := &mockShareService{
		shareFn: func(ctx context.Context, callerID, contentID string) (*model.ShareLink, string, error) {
			return nil, "", model.NewContentNotFoundError(contentID)
		},
	}
	h := NewShareHandler(svc, newTestRecorder())

	req := withUserID(httptest.NewRequest(http.MethodPost, "/api/v1/brain/share",
		strings.NewReader(`{"contentId":"c-other"}`)), "user-1")
	w := httptest.NewRecorder()

	h.Share(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if body := decodeErrorBody(t, w); body.Code != model.ErrCodeContentNotFound {
		t.Errorf("error code = %q, want %q", body.Code, model.ErrCodeContentNotFound)
	}
}

// resolveVia はchiのURLパラメータ解決を通してResolveハンドラーを呼ぶ。
func resolveVia(h *ShareHandler, token string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get("/api/v1/brain/{shareLink}", h.Resolve)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/brain/"+token, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestShareHandler_Resolve_Success(t *testing.T) {
	svc := &mockShareService{
		resolveFn: func(ctx context.Context, token string) (*model.Content, error) {
			if token != "aabbccddeeff00112233445566778899" {
				return nil, model.NewShareLinkNotFoundError()
			}
			return &model.Content{
				ID:        "c-1",
				OwnerID:   "user-1",
				OwnerName: "alice",
				Title:     "my notes",
				Links:     []model.Link{{URL: "https://youtu.be/abc", MediaType: "youtube"}},
				CreatedAt: time.Now(),
			}, nil
		},
	}
	h := NewShareHandler(svc, newTestRecorder())

	w := resolveVia(h, "aabbccddeeff00112233445566778899")

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Content contentResponse `json:"content"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if resp.Content.Username != "alice" {
		t.Errorf("username = %q, want %q", resp.Content.Username, "alice")
	}
	// 所有者のパスワードダイジェスト等を含むフィールドが存在しないこと
	if strings.Contains(w.Body.String(), "password") {
		t.Error("resolve response must not expose credential fields")
	}
}

func TestShareHandler_Resolve_UnknownToken(t *testing.T) {
	h := NewShareHandler(&mockShareService{}, newTestRecorder())

	w := resolveVia(h, strings.Repeat("0", 32))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if body := decodeErrorBody(t, w); body.Code != model.ErrCodeShareLinkNotFound {
		t.Errorf("error code = %q, want %q", body.Code, model.ErrCodeShareLinkNotFound)
	}
}
