package pagination

import (
	"encoding/base64"
	"encoding/json"

	"gorm.io/gorm"
)

type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size,default=25" validate:"gte=1,lte=250"`
}

type Cursor struct {
	ID        string `json:"id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type PageInfo struct {
	NextPageToken string `json:"next_page_token"`
	HasMore       bool   `json:"has_more"`
}

func EncodeCursor(data Cursor) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func DecodeCursor(data string) (*Cursor, error) {
	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}

	var cursor Cursor
	if err := json.Unmarshal(b, &cursor); err != nil {
		return nil, err
	}

	return &cursor, nil
}

// Apply adds the keyset predicate and over-fetching limit for page detection.
// Listing queries must order by created_at desc, id desc for the cursor to
// stay stable.
func Apply(stmt *gorm.DB, page Pagination) *gorm.DB {
	size := page.PageSize
	if size <= 0 {
		size = 25
	}
	if page.PageToken != "" {
		cursor, err := DecodeCursor(page.PageToken)
		if err == nil && cursor != nil && cursor.CreatedAt != "" {
			stmt = stmt.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}
	// fetch one extra row to detect a following page
	return stmt.Limit(size + 1)
}

func BuildCursorPageInfo[T any](data []*T, limit int, extractCursor func(*T) string) *PageInfo {
	if len(data) == 0 {
		return &PageInfo{HasMore: false}
	}

	hasMore := false
	if len(data) > limit {
		hasMore = true
		data = data[:limit]
	}

	return &PageInfo{
		HasMore:       hasMore,
		NextPageToken: extractCursor(data[len(data)-1]),
	}
}
