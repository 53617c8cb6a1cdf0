// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/secondbrain/internal/model"
)

// ErrDuplicate は一意制約違反を表すセンチネルエラー。
// サービス層でerrors.Isにより判定し、適切なAPIErrorに変換する。
var ErrDuplicate = errors.New("unique constraint violation")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。usernameが重複している場合はErrDuplicateを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByUsername は指定ユーザー名のユーザーを取得する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// ContentRepository はコンテンツデータの永続化インターフェース。
type ContentRepository interface {
	// Create はコンテンツとその全リンクを同一トランザクションで作成する。
	Create(ctx context.Context, content *model.Content) error

	// ListByOwner は指定ユーザーが所有するコンテンツを一覧する。順序は保証しない。
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Content, error)

	// FindByIDAndOwner はIDと所有者の両方が一致するコンテンツを取得する。
	// 所有者が異なる場合は存在しない場合と同様にnilを返す（単一の検索述語で判定する）。
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Content, error)

	// FindByID は指定IDのコンテンツを所有者名付きで取得する。見つからない場合はnilを返す。
	// 共有トークン解決用であり、所有者による絞り込みは行わない。
	FindByID(ctx context.Context, id string) (*model.Content, error)

	// DeleteByIDAndOwner はIDと所有者の両方が一致するコンテンツを削除する。
	// 削除された場合はtrue、一致する行がない場合はfalseを返す。
	// 関連するcontent_linksとshare_linksはCASCADE削除される。
	DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (bool, error)
}

// ShareLinkRepository は共有リンクデータの永続化インターフェース。
type ShareLinkRepository interface {
	// Upsert は(owner_id, content_id)をキーに共有リンクを原子的にUPSERTする。
	// 既存レコードがある場合はtokenとtitleを上書きし、IDと作成日時は維持する。
	// 永続化されたIDと作成日時はlinkに書き戻される。
	Upsert(ctx context.Context, link *model.ShareLink) error

	// FindByToken は指定トークン値の共有リンクを取得する。見つからない場合はnilを返す。
	// 所有者による絞り込みは行わない（トークン保持者なら誰でも解決できる）。
	FindByToken(ctx context.Context, token string) (*model.ShareLink, error)
}
