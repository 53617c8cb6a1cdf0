// Package share は共有トークンの発行と解決を提供する。
//
// 共有トークンは共有コンテンツを守る唯一の秘密情報であるため、
// crypto/randから生成する（時刻由来の低エントロピー乱数は使用しない）。
package share

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/secondbrain/internal/model"
	"github.com/hitoshi/secondbrain/internal/repository"
)

// tokenBytes は共有トークンの乱数バイト長。hex化で32文字になる。
const tokenBytes = 16

// Registry は共有トークンの発行・解決を行う。
type Registry struct {
	contents     repository.ContentRepository
	shares       repository.ShareLinkRepository
	shareBaseURL string
}

// NewRegistry はRegistryを生成する。
// shareBaseURLは共有URLの生成に使用する（例: "https://app.example.com"）。
func NewRegistry(
	contents repository.ContentRepository,
	shares repository.ShareLinkRepository,
	shareBaseURL string,
) *Registry {
	return &Registry{
		contents:     contents,
		shares:       shares,
		shareBaseURL: shareBaseURL,
	}
}

// Share は呼び出し元が所有するコンテンツの共有トークンを発行し、共有URLを返す。
// 所有判定は検索述語そのもので行い、他人のコンテンツは不存在と区別できない。
// 同一(owner, content)への再共有はトークン値とタイトルスナップショットを
// 原子的に上書きし、レコードは1件のまま維持される。古いトークンは即座に無効となる。
func (r *Registry) Share(ctx context.Context, callerID, contentID string) (*model.ShareLink, string, error) {
	content, err := r.contents.FindByIDAndOwner(ctx, contentID, callerID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to find content: %w", err)
	}
	if content == nil {
		return nil, "", model.NewContentNotFoundError(contentID)
	}

	token, err := generateShareToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate share token: %w", err)
	}

	now := time.Now()
	link := &model.ShareLink{
		ID:        uuid.New().String(),
		Token:     token,
		OwnerID:   callerID,
		ContentID: contentID,
		Title:     content.Title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := r.shares.Upsert(ctx, link); err != nil {
		return nil, "", fmt.Errorf("failed to upsert share link: %w", err)
	}

	slog.Info("content shared",
		slog.String("content_id", contentID),
		slog.String("owner_id", callerID),
	)

	return link, r.shareURL(token), nil
}

// Resolve は共有トークンをコンテンツに解決する。
// トークン値のみをキーとし、認証も所有判定も行わない
// （トークンを保持している者なら誰でも閲覧できる）。
// 返されるコンテンツには所有者の表示名が付与される（認証情報は含まない）。
func (r *Registry) Resolve(ctx context.Context, token string) (*model.Content, error) {
	link, err := r.shares.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to find share link: %w", err)
	}
	if link == nil {
		return nil, model.NewShareLinkNotFoundError()
	}

	content, err := r.contents.FindByID(ctx, link.ContentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find shared content: %w", err)
	}
	if content == nil {
		// CASCADE削除により通常は到達しないが、削除との競合時は未検出として扱う
		return nil, model.NewShareLinkNotFoundError()
	}

	return content, nil
}

// shareURL はトークンから外部公開用の共有URLを組み立てる。
func (r *Registry) shareURL(token string) string {
	return fmt.Sprintf("%s/shared/%s", r.shareBaseURL, token)
}

// generateShareToken は暗号的に安全な共有トークンを生成する。
func generateShareToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
