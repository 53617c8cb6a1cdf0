package share

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/hitoshi/secondbrain/internal/model"
)

// mockContentRepo はContentRepositoryのモック実装。
type mockContentRepo struct {
	findByIDAndOwnerFn func(ctx context.Context, id, ownerID string) (*model.Content, error)
	findByIDFn         func(ctx context.Context, id string) (*model.Content, error)
}

func (m *mockContentRepo) Create(ctx context.Context, content *model.Content) error {
	return nil
}

func (m *mockContentRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Content, error) {
	return nil, nil
}

func (m *mockContentRepo) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Content, error) {
	if m.findByIDAndOwnerFn != nil {
		return m.findByIDAndOwnerFn(ctx, id, ownerID)
	}
	return nil, nil
}

func (m *mockContentRepo) FindByID(ctx context.Context, id string) (*model.Content, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockContentRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (bool, error) {
	return false, nil
}

// mockShareRepo はShareLinkRepositoryのモック実装。
type mockShareRepo struct {
	upsertFn      func(ctx context.Context, link *model.ShareLink) error
	findByTokenFn func(ctx context.Context, token string) (*model.ShareLink, error)
}

func (m *mockShareRepo) Upsert(ctx context.Context, link *model.ShareLink) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, link)
	}
	return nil
}

func (m *mockShareRepo) FindByToken(ctx context.Context, token string) (*model.ShareLink, error) {
	if m.findByTokenFn != nil {
		return m.findByTokenFn(ctx, token)
	}
	return nil, nil
}

var shareTokenPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

func ownedContentRepo(ownerID string) *mockContentRepo {
	return &mockContentRepo{
		findByIDAndOwnerFn: func(ctx context.Context, id, owner string) (*model.Content, error) {
			if owner != ownerID {
				return nil, nil
			}
			return &model.Content{ID: id, OwnerID: owner, Title: "my notes"}, nil
		},
	}
}

func TestRegistry_Share_Success(t *testing.T) {
	var upserted *model.ShareLink
	shares := &mockShareRepo{
		upsertFn: func(ctx context.Context, link *model.ShareLink) error {
			upserted = link
			return nil
		},
	}

	reg := NewRegistry(ownedContentRepo("user-1"), shares, "https://app.example.com")

	link, url, err := reg.Share(context.Background(), "user-1", "c-1")
	if err != nil {
		t.Fatalf("Share() error = %v", err)
	}
	if !shareTokenPattern.MatchString(link.Token) {
		t.Errorf("token = %q, want 32 lowercase hex chars", link.Token)
	}
	if want := "https://app.example.com/shared/" + link.Token; url != want {
		t.Errorf("share URL = %q, want %q", url, want)
	}
	if upserted == nil {
		t.Fatal("expected Upsert to be called")
	}
	if upserted.OwnerID != "user-1" || upserted.ContentID != "c-1" {
		t.Errorf("upserted link = %+v, want owner user-1 content c-1", upserted)
	}
	// タイトルのスナップショットが取られていること
	if upserted.Title != "my notes" {
		t.Errorf("title snapshot = %q, want %q", upserted.Title, "my notes")
	}
}

func TestRegistry_Share_TokenRotatesOnReshare(t *testing.T) {
	reg := NewRegistry(ownedContentRepo("user-1"), &mockShareRepo{}, "https://app.example.com")

	first, _, err := reg.Share(context.Background(), "user-1", "c-1")
	if err != nil {
		t.Fatalf("first Share() error = %v", err)
	}
	second, _, err := reg.Share(context.Background(), "user-1", "c-1")
	if err != nil {
		t.Fatalf("second Share() error = %v", err)
	}
	if first.Token == second.Token {
		t.Error("expected a fresh token on re-share")
	}
}

func TestRegistry_Share_ReturnsPersistedRecordOnReshare(t *testing.T) {
	// リポジトリのUpsertは既存レコードのIDと作成日時を書き戻す。
	// 呼び出し元に返るリンクが永続化されたレコードを指すことを確認する。
	var stored *model.ShareLink
	shares := &mockShareRepo{
		upsertFn: func(ctx context.Context, link *model.ShareLink) error {
			if stored == nil {
				copied := *link
				stored = &copied
				return nil
			}
			stored.Token = link.Token
			stored.Title = link.Title
			stored.UpdatedAt = link.UpdatedAt
			link.ID = stored.ID
			link.CreatedAt = stored.CreatedAt
			return nil
		},
	}

	reg := NewRegistry(ownedContentRepo("user-1"), shares, "https://app.example.com")

	first, _, err := reg.Share(context.Background(), "user-1", "c-1")
	if err != nil {
		t.Fatalf("first Share() error = %v", err)
	}
	second, _, err := reg.Share(context.Background(), "user-1", "c-1")
	if err != nil {
		t.Fatalf("second Share() error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("re-share link ID = %q, want the persisted %q", second.ID, first.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("re-share createdAt = %v, want the persisted %v", second.CreatedAt, first.CreatedAt)
	}
}

func TestRegistry_Share_NotOwned(t *testing.T) {
	upsertCalled := false
	shares := &mockShareRepo{
		upsertFn: func(ctx context.Context, link *model.ShareLink) error {
			upsertCalled = true
			return nil
		},
	}

	reg := NewRegistry(ownedContentRepo("user-1"), shares, "https://app.example.com")

	// 他人のコンテンツは不存在と同じエラーになること
	_, _, err := reg.Share(context.Background(), "user-2", "c-1")
	assertAPIErrorCode(t, err, model.ErrCodeContentNotFound)
	if upsertCalled {
		t.Error("Upsert should not be called for a content the caller does not own")
	}
}

func TestRegistry_Resolve_Success(t *testing.T) {
	contents := &mockContentRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Content, error) {
			return &model.Content{ID: id, OwnerID: "user-1", OwnerName: "alice", Title: "my notes"}, nil
		},
	}
	shares := &mockShareRepo{
		findByTokenFn: func(ctx context.Context, token string) (*model.ShareLink, error) {
			if token != "deadbeef" {
				return nil, nil
			}
			return &model.ShareLink{ID: "s-1", Token: token, OwnerID: "user-1", ContentID: "c-1"}, nil
		},
	}

	reg := NewRegistry(contents, shares, "https://app.example.com")

	content, err := reg.Resolve(context.Background(), "deadbeef")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if content.ID != "c-1" {
		t.Errorf("content ID = %q, want %q", content.ID, "c-1")
	}
	if content.OwnerName != "alice" {
		t.Errorf("owner name = %q, want %q", content.OwnerName, "alice")
	}
}

func TestRegistry_Resolve_UnknownToken(t *testing.T) {
	reg := NewRegistry(&mockContentRepo{}, &mockShareRepo{}, "https://app.example.com")

	_, err := reg.Resolve(context.Background(), strings.Repeat("0", 32))
	assertAPIErrorCode(t, err, model.ErrCodeShareLinkNotFound)
}

func TestRegistry_Resolve_ContentDeletedRace(t *testing.T) {
	shares := &mockShareRepo{
		findByTokenFn: func(ctx context.Context, token string) (*model.ShareLink, error) {
			return &model.ShareLink{ID: "s-1", Token: token, OwnerID: "user-1", ContentID: "c-gone"}, nil
		},
	}

	// リンクは引けたがコンテンツが既に消えているケース
	reg := NewRegistry(&mockContentRepo{}, shares, "https://app.example.com")

	_, err := reg.Resolve(context.Background(), "deadbeef")
	assertAPIErrorCode(t, err, model.ErrCodeShareLinkNotFound)
}

func assertAPIErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T: %v", err, err)
	}
	if apiErr.Code != code {
		t.Errorf("error code = %q, want %q", apiErr.Code, code)
	}
}
