package security

import (
	"fmt"
	"net/url"
)

// LinkValidatorService はコンテンツに登録されるリンクURLの検証インターフェース。
type LinkValidatorService interface {
	// Validate はURLが絶対URIかつhttp/httpsスキームであることを検証する。
	// 不正な場合は理由を含むエラーを返す。
	Validate(rawURL string) error
}

// linkValidator はLinkValidatorServiceの実装。状態を持たない。
type linkValidator struct{}

// NewLinkValidator はLinkValidatorServiceの新しいインスタンスを生成する。
func NewLinkValidator() LinkValidatorService {
	return &linkValidator{}
}

// Validate はURL形式を検証する。
// スキームはhttp/httpsのみ許可し、ホストが空のURLは拒否する。
func (v *linkValidator) Validate(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("url is empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("malformed url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported url scheme: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("url host is empty")
	}

	return nil
}
