// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TitleSanitizer はユーザー入力のタイトル文字列をサニタイズし、
// 共有トークン経由で匿名の閲覧者に配信される際のXSSリスクを除去する。
// bluemondayのStrictPolicyにより全HTMLタグを除去する。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TitleSanitizerService はタイトルサニタイズ機能のインターフェースを定義する。
// コンテンツ保存前に使用される。
type TitleSanitizerService interface {
	// Sanitize は入力からHTMLタグを全て除去し、前後の空白を取り除いた文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(title string) string
}

// titleSanitizer はTitleSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type titleSanitizer struct {
	policy *bluemonday.Policy
}

// NewTitleSanitizer はTitleSanitizerServiceの新しいインスタンスを生成する。
// タイトルはプレーンテキストとして扱うため、タグを一切許可しないStrictPolicyを使用する。
func NewTitleSanitizer() TitleSanitizerService {
	return &titleSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力からHTMLタグを全て除去する。
func (s *titleSanitizer) Sanitize(title string) string {
	return strings.TrimSpace(s.policy.Sanitize(title))
}
