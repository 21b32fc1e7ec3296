package domain

import "time"

type PostId = int64

// Post is a single board entry. Writer is always the id of the logged-in author.
type Post struct {
	Bno       PostId    `db:"bno"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	Writer    UserId    `db:"writer"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

const (
	TitleMaxLen   = 200
	ContentMaxLen = 20000
)

type PostData struct {
	Title   string `validate:"required,max=200"`
	Content string `validate:"required,max=20000"`
}

type SearchType string

const (
	SearchTitle        SearchType = "title"
	SearchContent      SearchType = "content"
	SearchWriter       SearchType = "writer"
	SearchTitleContent SearchType = "title_content"
)

// ParseSearchType falls back to title search for unknown values.
func ParseSearchType(s string) SearchType {
	switch SearchType(s) {
	case SearchContent, SearchWriter, SearchTitleContent:
		return SearchType(s)
	default:
		return SearchTitle
	}
}

type Search struct {
	Type    SearchType
	Keyword string
}
