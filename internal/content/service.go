// Package content はブックマークコンテンツの作成・一覧・削除を提供する。
// すべての操作は呼び出し元の認証済みユーザーIDでスコープされる。
package content

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/secondbrain/internal/model"
	"github.com/hitoshi/secondbrain/internal/repository"
	"github.com/hitoshi/secondbrain/internal/security"
)

// LinkInput はコンテンツ作成時のリンク入力を表す。
type LinkInput struct {
	URL       string
	MediaType string
}

// CreateInput はコンテンツ作成の入力を表す。
type CreateInput struct {
	Title string
	Links []LinkInput
	Tags  []string
}

// Service はコンテンツに関するビジネスロジックを提供する。
type Service struct {
	contents  repository.ContentRepository
	sanitizer security.TitleSanitizerService
	validator security.LinkValidatorService
}

// NewService はServiceを生成する。
func NewService(
	contents repository.ContentRepository,
	sanitizer security.TitleSanitizerService,
	validator security.LinkValidatorService,
) *Service {
	return &Service{
		contents:  contents,
		sanitizer: sanitizer,
		validator: validator,
	}
}

// Create はコンテンツを作成する。
// タイトルはサニタイズ後に空でないこと、リンクが1件以上あること、
// 各リンクURLが正しい形式であることを検証する。
func (s *Service) Create(ctx context.Context, ownerID string, input CreateInput) (*model.Content, error) {
	title := s.sanitizer.Sanitize(input.Title)
	if title == "" {
		return nil, model.NewValidationError("タイトルは必須です")
	}
	if len(input.Links) == 0 {
		return nil, model.NewValidationError("リンクは1件以上必要です")
	}

	links := make([]model.Link, 0, len(input.Links))
	for _, l := range input.Links {
		if err := s.validator.Validate(l.URL); err != nil {
			return nil, model.NewValidationError(fmt.Sprintf("リンクURLが不正です: %s", l.URL))
		}
		links = append(links, model.Link{URL: l.URL, MediaType: l.MediaType})
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	content := &model.Content{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Title:     title,
		Links:     links,
		Tags:      tags,
		CreatedAt: time.Now(),
	}

	if err := s.contents.Create(ctx, content); err != nil {
		return nil, fmt.Errorf("failed to create content: %w", err)
	}

	slog.Info("content created",
		slog.String("content_id", content.ID),
		slog.String("owner_id", ownerID),
		slog.Int("links_count", len(links)),
	)

	return content, nil
}

// List は呼び出し元が所有するコンテンツのみを返す。順序は保証しない。
func (s *Service) List(ctx context.Context, callerID string) ([]*model.Content, error) {
	contents, err := s.contents.ListByOwner(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contents: %w", err)
	}
	return contents, nil
}

// Delete は呼び出し元が所有するコンテンツを削除する。
// 所有者が異なる場合も不存在の場合も同一の未検出エラーを返す。
// 関連する共有リンクはストア側でCASCADE削除される。
func (s *Service) Delete(ctx context.Context, callerID, contentID string) error {
	deleted, err := s.contents.DeleteByIDAndOwner(ctx, contentID, callerID)
	if err != nil {
		return fmt.Errorf("failed to delete content: %w", err)
	}
	if !deleted {
		return model.NewContentNotFoundError(contentID)
	}

	slog.Info("content deleted",
		slog.String("content_id", contentID),
		slog.String("owner_id", callerID),
	)

	return nil
}
