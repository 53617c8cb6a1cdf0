package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/secondbrain/internal/model"
)

// PostgresContentRepo はPostgreSQLを使用したコンテンツリポジトリ。
type PostgresContentRepo struct {
	db *sql.DB
}

// NewPostgresContentRepo はPostgresContentRepoを生成する。
func NewPostgresContentRepo(db *sql.DB) *PostgresContentRepo {
	return &PostgresContentRepo{db: db}
}

// Create はコンテンツと全リンクを同一トランザクションで作成する。
// リンクはpositionカラムで登録順を保持する。
func (r *PostgresContentRepo) Create(ctx context.Context, content *model.Content) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO contents (id, owner_id, title, tags, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		content.ID, content.OwnerID, content.Title,
		pq.Array(content.Tags), content.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert content: %w", err)
	}

	for i, link := range content.Links {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO content_links (content_id, position, url, media_type)
			 VALUES ($1, $2, $3, $4)`,
			content.ID, i, link.URL, link.MediaType,
		)
		if err != nil {
			return fmt.Errorf("failed to insert content link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListByOwner は指定ユーザーが所有するコンテンツを所有者名・リンク付きで一覧する。
func (r *PostgresContentRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Content, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.owner_id, u.username, c.title, c.tags, c.created_at
		 FROM contents c
		 JOIN users u ON u.id = c.owner_id
		 WHERE c.owner_id = $1`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list contents: %w", err)
	}
	defer rows.Close()

	var contents []*model.Content
	var ids []string
	for rows.Next() {
		c := &model.Content{}
		var tags pq.StringArray
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.OwnerName, &c.Title, &tags, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan content row: %w", err)
		}
		c.Tags = tags
		contents = append(contents, c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate content rows: %w", err)
	}

	if err := r.attachLinks(ctx, contents, ids); err != nil {
		return nil, err
	}

	return contents, nil
}

// FindByIDAndOwner はIDと所有者の両方が一致するコンテンツを取得する。
// 所有判定はWHERE句の述語として行い、取得後の比較は行わない。
func (r *PostgresContentRepo) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Content, error) {
	return r.findOne(ctx,
		`SELECT c.id, c.owner_id, u.username, c.title, c.tags, c.created_at
		 FROM contents c
		 JOIN users u ON u.id = c.owner_id
		 WHERE c.id = $1 AND c.owner_id = $2`,
		id, ownerID,
	)
}

// FindByID は指定IDのコンテンツを所有者名付きで取得する。
func (r *PostgresContentRepo) FindByID(ctx context.Context, id string) (*model.Content, error) {
	return r.findOne(ctx,
		`SELECT c.id, c.owner_id, u.username, c.title, c.tags, c.created_at
		 FROM contents c
		 JOIN users u ON u.id = c.owner_id
		 WHERE c.id = $1`,
		id,
	)
}

// DeleteByIDAndOwner はIDと所有者の両方が一致するコンテンツを削除する。
// content_linksとshare_linksは外部キーのON DELETE CASCADEで同時に削除される。
func (r *PostgresContentRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM contents WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete content: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// findOne は単一コンテンツをリンク付きで取得する共通処理。
func (r *PostgresContentRepo) findOne(ctx context.Context, query string, args ...any) (*model.Content, error) {
	c := &model.Content{}
	var tags pq.StringArray
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&c.ID, &c.OwnerID, &c.OwnerName, &c.Title, &tags, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find content: %w", err)
	}
	c.Tags = tags

	if err := r.attachLinks(ctx, []*model.Content{c}, []string{c.ID}); err != nil {
		return nil, err
	}

	return c, nil
}

// attachLinks は指定コンテンツ群のリンクを1クエリで取得し、登録順に紐づける。
func (r *PostgresContentRepo) attachLinks(ctx context.Context, contents []*model.Content, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT content_id, url, media_type
		 FROM content_links
		 WHERE content_id = ANY($1)
		 ORDER BY content_id, position`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("failed to list content links: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*model.Content, len(contents))
	for _, c := range contents {
		byID[c.ID] = c
	}

	for rows.Next() {
		var contentID string
		var link model.Link
		if err := rows.Scan(&contentID, &link.URL, &link.MediaType); err != nil {
			return fmt.Errorf("failed to scan link row: %w", err)
		}
		if c, ok := byID[contentID]; ok {
			c.Links = append(c.Links, link)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate link rows: %w", err)
	}

	return nil
}

// compile-time interface check
var _ ContentRepository = (*PostgresContentRepo)(nil)
