package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

// 各Postgres実装がリポジトリインターフェースを満たすことを検証
func TestPostgresUserRepo_ImplementsInterface(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
}

func TestPostgresContentRepo_ImplementsInterface(t *testing.T) {
	var _ ContentRepository = (*PostgresContentRepo)(nil)
}

func TestPostgresShareLinkRepo_ImplementsInterface(t *testing.T) {
	var _ ShareLinkRepository = (*PostgresShareLinkRepo)(nil)
}

// 各コンストラクタが正しく初期化されることを検証
func TestNewPostgresUserRepo_Initializes(t *testing.T) {
	if repo := NewPostgresUserRepo(nil); repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

func TestNewPostgresContentRepo_Initializes(t *testing.T) {
	if repo := NewPostgresContentRepo(nil); repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

func TestNewPostgresShareLinkRepo_Initializes(t *testing.T) {
	if repo := NewPostgresShareLinkRepo(nil); repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// 一意制約違反コードの判定ロジックを検証（DB接続なし）
func TestUniqueViolationDetection(t *testing.T) {
	var pqErr *pq.Error

	wrapped := fmt.Errorf("failed to insert user: %w", &pq.Error{Code: pqUniqueViolation})
	if !errors.As(wrapped, &pqErr) || pqErr.Code != pqUniqueViolation {
		t.Error("expected wrapped pq unique violation to be detectable via errors.As")
	}

	other := fmt.Errorf("failed to insert user: %w", errors.New("connection refused"))
	if errors.As(other, &pqErr) {
		t.Error("non-pq errors must not match *pq.Error")
	}
}

// ErrDuplicateがラップ後もerrors.Isで判定できることを検証
// （サービス層での重複検出と同じ経路）
func TestErrDuplicate_SurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("username %q: %w", "alice", ErrDuplicate)
	if !errors.Is(wrapped, ErrDuplicate) {
		t.Error("wrapped ErrDuplicate should match via errors.Is")
	}
}
