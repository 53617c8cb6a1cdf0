package model

import "time"

// ShareLink は公開共有トークンを表す。
// (OwnerID, ContentID) の組につき常に1レコードのみ存在し、
// 再共有時はTokenとTitleが上書きされる。
// Titleは発行時点のコンテンツタイトルのスナップショット。
type ShareLink struct {
	ID        string
	Token     string
	OwnerID   string
	ContentID string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
