package model

import "time"

// Link はコンテンツに紐づく外部リンクを表す。
// MediaTypeは埋め込み表示の種別（"youtube"、"twitter"等）で、中身の解釈はフロントエンドに委ねる。
type Link struct {
	URL       string
	MediaType string
}

// Content はユーザーが保存したブックマークコンテンツを表す。
// OwnerIDは作成時に確定し、以降変更されない。
// Linksは登録順を保持する（最低1件必須）。
type Content struct {
	ID        string
	OwnerID   string
	OwnerName string // 所有者の表示名（読み取り時にusersから結合して付与）
	Title     string
	Links     []Link
	Tags      []string
	CreatedAt time.Time
}
