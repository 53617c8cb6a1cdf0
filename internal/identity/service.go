// Package identity はユーザー登録、認証、セッショントークン検証を提供する。
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/secondbrain/internal/model"
	"github.com/hitoshi/secondbrain/internal/repository"
)

// Service は認証に関するビジネスロジックを提供する。
// パスワードはbcryptダイジェストのみを保存し、
// セッションはストアを持たない署名付きトークンとして発行する。
type Service struct {
	users  repository.UserRepository
	tokens *TokenIssuer
}

// NewService はServiceを生成する。
func NewService(users repository.UserRepository, tokens *TokenIssuer) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
	}
}

// Register は新規ユーザーを登録し、生成したユーザーIDを返す。
// ユーザー名・パスワードが空の場合はバリデーションエラー、
// ユーザー名が既に使用されている場合は重複エラーを返す。
// 重複判定はDBの一意制約違反で検出する（事前チェックは行わない）。
func (s *Service) Register(ctx context.Context, username, password string) (string, error) {
	if username == "" {
		return "", model.NewValidationError("ユーザー名は必須です")
	}
	if password == "" {
		return "", model.NewValidationError("パスワードは必須です")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", model.NewUserAlreadyExistsError()
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("username", username),
	)

	return user.ID, nil
}

// Authenticate は認証情報を検証し、セッショントークンを発行する。
// ユーザーが存在しない場合とパスワード不一致の場合で異なる型付きエラーを返すが、
// HTTP境界では両者を同一の401レスポンスに畳み込むこと。
func (s *Service) Authenticate(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return "", model.NewUserNotFoundError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", model.NewInvalidCredentialsError()
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue session token: %w", err)
	}

	slog.Info("user authenticated", slog.String("user_id", user.ID))

	return token, nil
}

// VerifySession はセッショントークンを検証し、主張されたユーザーIDを返す。
// 署名と有効期限のみで判定する純粋な検証であり、ストアへの問い合わせは行わない。
// 失効手段は持たないため、漏洩したトークンは自然失効まで有効となる。
func (s *Service) VerifySession(token string) (string, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return "", model.NewInvalidTokenError()
	}
	return userID, nil
}
