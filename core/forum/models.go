package forum

import (
	"time"

	"github.com/volatiletech/null/v8"
)

type Category struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Description null.String `json:"description"`
}

type Thread struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"category_id"`
	Title      string    `json:"title"`
	AuthorID   string    `json:"author_id"`
	CreatedAt  time.Time `json:"created_at"`
	LastPostAt time.Time `json:"last_post_at"`
}

type Post struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type NewThread struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body" validate:"required"`
}

type NewPost struct {
	Body string `json:"body" validate:"required"`
}
