package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/secondbrain/internal/model"
)

// PostgresShareLinkRepo はPostgreSQLを使用した共有リンクリポジトリ。
type PostgresShareLinkRepo struct {
	db *sql.DB
}

// NewPostgresShareLinkRepo はPostgresShareLinkRepoを生成する。
func NewPostgresShareLinkRepo(db *sql.DB) *PostgresShareLinkRepo {
	return &PostgresShareLinkRepo{db: db}
}

// Upsert は共有リンクを冪等にUPSERTする。
// UNIQUE(owner_id, content_id)制約を利用したINSERT ON CONFLICTで実装し、
// 同一キーへの並行Shareでも重複レコードが生まれないことをDB側で保証する。
// 既存レコードがある場合はtoken・title・updated_atのみ上書きし、
// 永続化されたIDと作成日時をRETURNINGでlinkに書き戻す。
func (r *PostgresShareLinkRepo) Upsert(ctx context.Context, link *model.ShareLink) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO share_links (id, token, owner_id, content_id, title, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (owner_id, content_id) DO UPDATE SET
		     token = EXCLUDED.token,
		     title = EXCLUDED.title,
		     updated_at = EXCLUDED.updated_at
		 RETURNING id, created_at`,
		link.ID, link.Token, link.OwnerID, link.ContentID,
		link.Title, link.CreatedAt, link.UpdatedAt,
	).Scan(&link.ID, &link.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert share link: %w", err)
	}
	return nil
}

// FindByToken は指定トークン値の共有リンクを取得する。見つからない場合はnilを返す。
func (r *PostgresShareLinkRepo) FindByToken(ctx context.Context, token string) (*model.ShareLink, error) {
	link := &model.ShareLink{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, token, owner_id, content_id, title, created_at, updated_at
		 FROM share_links WHERE token = $1`,
		token,
	).Scan(
		&link.ID, &link.Token, &link.OwnerID, &link.ContentID,
		&link.Title, &link.CreatedAt, &link.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find share link: %w", err)
	}
	return link, nil
}

// compile-time interface check
var _ ShareLinkRepository = (*PostgresShareLinkRepo)(nil)
